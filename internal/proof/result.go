package proof

// Attributes is the fixed, auditable metric set attached to every
// proof, including the thresholds the run was gated on.
type Attributes struct {
	TotalConversationsProcessed int     `json:"total_conversations_processed"`
	ValidConversationsCount     int     `json:"valid_conversations_count"`
	FileInternalDuplicates      int     `json:"file_internal_duplicates"`
	UniqueFingerprintsCount     int     `json:"unique_fingerprints_count"`
	InvalidRecordsSkipped       int     `json:"invalid_records_skipped"`
	AverageWordCountScore       float64 `json:"average_word_count_score"`
	MinQualityThreshold         float64 `json:"min_quality_threshold"`
	MinComplexityThreshold      float64 `json:"min_complexity_threshold"`
	TargetWordCount             int     `json:"target_word_count"`
	Error                       string  `json:"error,omitempty"`
}

// Metadata carries everything a downstream tier needs to run
// cross-submission checks without re-reading raw content.
type Metadata struct {
	RunID               string   `json:"run_id"`
	AllUniquenessHashes []string `json:"all_uniqueness_hashes"`
}

// Result is the proof emitted for one batch. Constructed exactly once
// per run and never mutated; tier-2 recombination produces a new
// verdict, not a patched proof.
type Result struct {
	DLPID      int        `json:"dlp_id"`
	Valid      bool       `json:"valid"`
	Score      float64    `json:"score"`
	Quality    float64    `json:"quality"`
	Uniqueness float64    `json:"uniqueness"`
	Attributes Attributes `json:"attributes"`
	Metadata   Metadata   `json:"metadata"`
}

// RecordScore holds the per-record signals gathered during the batch
// walk. Only gate-passing records are retained in the accepted list.
type RecordScore struct {
	Index       int
	Complexity  float64
	Quality     float64
	Fingerprint string
	PIIFree     bool
}
