package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/nativya/nativya-scoring-engine/internal/ingest"
)

// Quality scores how coherent a user/bot exchange is: the cosine
// similarity between the embeddings of the two sides. Range follows the
// embedding space, nominally [-1,1].
func (s *Scorer) Quality(ctx context.Context, turn ingest.Turn) (float64, error) {
	userVec, err := s.Embedder.Embed(ctx, turn.User)
	if err != nil {
		return 0, fmt.Errorf("failed to embed user text: %w", err)
	}
	botVec, err := s.Embedder.Embed(ctx, turn.Bot)
	if err != nil {
		return 0, fmt.Errorf("failed to embed bot text: %w", err)
	}
	return CosineSimilarity(userVec, botVec), nil
}

// CosineSimilarity returns 0 for mismatched or zero vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0.0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
