package proof

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/nativya/nativya-scoring-engine/internal/config"
	"github.com/nativya/nativya-scoring-engine/internal/fingerprint"
	"github.com/nativya/nativya-scoring-engine/internal/ingest"
	"github.com/nativya/nativya-scoring-engine/internal/llm"
	"github.com/nativya/nativya-scoring-engine/internal/scoring"
)

// ErrNoValidConversations means every record failed the PII,
// complexity or quality gates.
var ErrNoValidConversations = errors.New("no valid conversations found")

// Engine runs the full scoring walk over one batch and assembles the
// proof. A fresh fingerprint tracker is created per run; the engine
// itself holds no batch state and may be reused.
type Engine struct {
	Scorer *scoring.Scorer
	Config *config.Config
}

func NewEngine(embedder llm.EmbedderClient, cfg *config.Config) *Engine {
	return &Engine{
		Scorer: scoring.NewScorer(embedder, cfg.Scoring),
		Config: cfg,
	}
}

// Generate streams the batch source through the per-record scorers and
// aggregates the proof. The returned Result is always well-formed; on
// abort paths it is an invalid zero-score proof and the error says why.
// Records are processed strictly in input order, one at a time.
func (e *Engine) Generate(ctx context.Context, source io.Reader) (*Result, error) {
	log.Printf("Starting proof generation")

	runID := uuid.New().String()
	reader := ingest.NewReader(source)
	tracker := fingerprint.NewTracker()

	var accepted []RecordScore
	var wordCountScores []float64
	skipped := 0
	index := 0

	for {
		raw, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return e.errorResult(runID, "Invalid JSON format: "+err.Error()), err
		}

		turn, err := ingest.ParseRecord(raw)
		if err != nil {
			log.Printf("Skipping record %d: %v", index, err)
			skipped++
			index++
			continue
		}

		combined := turn.Combined()
		piiFree := e.Scorer.PIIFree(combined)
		complexity := e.Scorer.Complexity(combined)
		wordCountScore := e.Scorer.WordCountScore(combined)

		quality, err := e.Scorer.Quality(ctx, turn)
		if err != nil {
			return e.errorResult(runID, "Scoring failed: "+err.Error()), err
		}

		fp := fingerprint.Format(fingerprint.Hash(combined))
		tracker.Add(fp)
		wordCountScores = append(wordCountScores, wordCountScore)

		if piiFree &&
			complexity > e.Config.Scoring.MinComplexity &&
			quality > e.Config.Scoring.MinQuality {
			accepted = append(accepted, RecordScore{
				Index:       index,
				Complexity:  complexity,
				Quality:     quality,
				Fingerprint: fp,
				PIIFree:     piiFree,
			})
		}
		index++
	}

	if len(accepted) == 0 {
		res := e.errorResult(runID, "No valid conversations found.")
		res.Attributes.TotalConversationsProcessed = tracker.Total()
		res.Attributes.FileInternalDuplicates = tracker.Duplicates()
		res.Attributes.UniqueFingerprintsCount = tracker.Total()
		res.Attributes.InvalidRecordsSkipped = skipped
		res.Metadata.AllUniquenessHashes = tracker.Sorted()
		return res, ErrNoValidConversations
	}

	res := e.aggregate(runID, accepted, wordCountScores, tracker, skipped)
	log.Printf("Proof generation successful: valid=%v score=%.4f", res.Valid, res.Score)
	return res, nil
}

func (e *Engine) aggregate(runID string, accepted []RecordScore, wordCountScores []float64, tracker *fingerprint.Tracker, skipped int) *Result {
	var qualitySum float64
	for _, r := range accepted {
		qualitySum += r.Quality
	}
	finalQuality := clamp01(qualitySum / float64(len(accepted)))

	total := tracker.Total()
	finalUniqueness := 0.0
	if total > 0 {
		unique := total - tracker.Duplicates()
		finalUniqueness = clamp01(float64(unique) / float64(total))
	}

	finalWordCount := 0.0
	if len(wordCountScores) > 0 {
		var sum float64
		for _, s := range wordCountScores {
			sum += s
		}
		finalWordCount = clamp01(sum / float64(len(wordCountScores)))
	}

	w := e.Config.Scoring
	finalScore := clamp01(w.QualityWeight*finalQuality +
		w.UniquenessWeight*finalUniqueness +
		w.WordCountWeight*finalWordCount)

	return &Result{
		DLPID:      e.Config.DLPID,
		Valid:      finalScore > w.ValidityThreshold && len(accepted) > 0,
		Score:      finalScore,
		Quality:    finalQuality,
		Uniqueness: finalUniqueness,
		Attributes: Attributes{
			TotalConversationsProcessed: total,
			ValidConversationsCount:     len(accepted),
			FileInternalDuplicates:      tracker.Duplicates(),
			UniqueFingerprintsCount:     total,
			InvalidRecordsSkipped:       skipped,
			AverageWordCountScore:       finalWordCount,
			MinQualityThreshold:         w.MinQuality,
			MinComplexityThreshold:      w.MinComplexity,
			TargetWordCount:             w.TargetWordCount,
		},
		Metadata: Metadata{
			RunID:               runID,
			AllUniquenessHashes: tracker.Sorted(),
		},
	}
}

// errorResult builds the invalid zero-score proof emitted on abort
// paths, with the failure reason in attributes.
func (e *Engine) errorResult(runID, message string) *Result {
	return &Result{
		DLPID: e.Config.DLPID,
		Valid: false,
		Attributes: Attributes{
			MinQualityThreshold:    e.Config.Scoring.MinQuality,
			MinComplexityThreshold: e.Config.Scoring.MinComplexity,
			TargetWordCount:        e.Config.Scoring.TargetWordCount,
			Error:                  message,
		},
		Metadata: Metadata{
			RunID:               runID,
			AllUniquenessHashes: []string{},
		},
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
