package scoring

import (
	"regexp"
	"strings"

	"github.com/nativya/nativya-scoring-engine/internal/config"
	"github.com/nativya/nativya-scoring-engine/internal/llm"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	// Phone-shaped sequences: optional country code, optional area code,
	// then a 7-digit local number with optional separators.
	phonePattern = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?(\(?\d{3}\)?[-.\s]?)?\d{3}[-.\s]?\d{4}`)

	tokenPattern = regexp.MustCompile(`[\p{L}\p{N}']+`)
)

// Scorer holds the per-record scoring logic: PII gate, lexical
// complexity, word-count normalization and embedding-backed semantic
// quality.
type Scorer struct {
	Embedder llm.EmbedderClient
	Scoring  config.ScoringConfig
}

func NewScorer(embedder llm.EmbedderClient, cfg config.ScoringConfig) *Scorer {
	return &Scorer{
		Embedder: embedder,
		Scoring:  cfg,
	}
}

// Tokenize lower-cases text and splits it on word boundaries.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// PIIFree reports whether the text is free of disqualifying personal
// data. Deliberately simple pattern matching, not a full PII detector.
func (s *Scorer) PIIFree(text string) bool {
	if emailPattern.MatchString(text) || phonePattern.MatchString(text) {
		return false
	}
	return true
}

// Complexity scores lexical diversity and average word length as cheap
// proxies for substantive content. Bounded to [0,1].
func (s *Scorer) Complexity(text string) float64 {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return 0.0
	}

	distinct := make(map[string]struct{}, len(tokens))
	totalLen := 0
	for _, tok := range tokens {
		distinct[tok] = struct{}{}
		totalLen += len(tok)
	}

	lexicalDiversity := float64(len(distinct)) / float64(len(tokens))
	avgWordLength := float64(totalLen) / float64(len(tokens))

	lengthScore := avgWordLength / 10
	if lengthScore > 1.0 {
		lengthScore = 1.0
	}

	score := 0.6*lexicalDiversity + 0.4*lengthScore
	if score > 1.0 {
		return 1.0
	}
	return score
}

// WordCountScore normalizes the token count against the configured
// target, capped at 1.0.
func (s *Scorer) WordCountScore(text string) float64 {
	target := s.Scoring.TargetWordCount
	if target <= 0 {
		return 0.0
	}
	score := float64(len(Tokenize(text))) / float64(target)
	if score > 1.0 {
		return 1.0
	}
	return score
}
