package proof

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/nativya/nativya-scoring-engine/internal/config"
	"github.com/nativya/nativya-scoring-engine/internal/ingest"
)

// mockEmbedder returns a fixed vector for every text, so the cosine
// quality of any pair is 1.0 and tests stay deterministic.
type mockEmbedder struct {
	vectors map[string][]float32
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := m.vectors[text]; ok {
		return vec, nil
	}
	return []float32{1, 0, 0}, nil
}

func testEngine() *Engine {
	return NewEngine(&mockEmbedder{}, config.Default())
}

func TestGenerateDuplicatePair(t *testing.T) {
	input := `[
		{"user": "Hello there", "bot": "Hi, how can I help you today"},
		{"user": "Hello there", "bot": "Hi, how can I help you today"}
	]`

	res, err := testEngine().Generate(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Attributes.FileInternalDuplicates)
	assert.Equal(t, 1, res.Attributes.UniqueFingerprintsCount)
	assert.Equal(t, 1, res.Attributes.TotalConversationsProcessed)
	assert.Equal(t, 2, res.Attributes.ValidConversationsCount)
	assert.Equal(t, 0.0, res.Uniqueness)
	assert.Len(t, res.Metadata.AllUniquenessHashes, 1)
}

func TestGeneratePIIGating(t *testing.T) {
	input := `[{"user": "How do I reach you?", "bot": "Sure, call me at 555-123-4567 whenever you like"}]`

	res, err := testEngine().Generate(context.Background(), strings.NewReader(input))
	require.ErrorIs(t, err, ErrNoValidConversations)

	assert.False(t, res.Valid)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, 0.0, res.Quality)
	assert.Equal(t, 0, res.Attributes.ValidConversationsCount)
	// The record is still fingerprinted even though it fails the gate.
	assert.Equal(t, 1, res.Attributes.TotalConversationsProcessed)
	assert.Equal(t, "No valid conversations found.", res.Attributes.Error)
}

func TestGenerateSkipsMalformedRecords(t *testing.T) {
	input := `[
		{"user": "What is the weather like in the mountains?", "bot": "Cold and windy with occasional snow near the higher ridges"},
		{"bot": "an answer without a question"},
		42,
		{"user": "Tell me about rivers", "bot": "Rivers carry freshwater from highlands toward the sea through long valleys"}
	]`

	res, err := testEngine().Generate(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Attributes.InvalidRecordsSkipped)
	assert.Equal(t, 2, res.Attributes.ValidConversationsCount)
	assert.Equal(t, 2, res.Attributes.TotalConversationsProcessed)
	assert.True(t, res.Valid)
}

func TestGenerateMalformedBatch(t *testing.T) {
	res, err := testEngine().Generate(context.Background(), strings.NewReader(`"not a batch"`))
	require.ErrorIs(t, err, ingest.ErrMalformedBatch)

	assert.False(t, res.Valid)
	assert.Equal(t, 0.0, res.Score)
	assert.Contains(t, res.Attributes.Error, "Invalid JSON format")
}

func TestGenerateValidBatch(t *testing.T) {
	input := `{
		"conversations": [
			{"prompt": "Explain how glaciers shape valleys over thousands of years", "answer": "Glaciers grind slowly downhill, carving wide U-shaped valleys and depositing moraines along their edges"},
			{"prompt": "Why do leaves change color in autumn?", "answer": "Shorter days reduce chlorophyll production, letting yellow and orange pigments show through before the leaves fall"}
		]
	}`

	res, err := testEngine().Generate(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.True(t, res.Valid)
	assert.Equal(t, 145, res.DLPID)
	assert.Equal(t, 2, res.Attributes.ValidConversationsCount)
	assert.Equal(t, 0, res.Attributes.FileInternalDuplicates)
	assert.Equal(t, 1.0, res.Uniqueness)
	assert.Len(t, res.Metadata.AllUniquenessHashes, 2)
	assert.NotEmpty(t, res.Metadata.RunID)

	// Fingerprints are sorted for the downstream tier.
	hashes := res.Metadata.AllUniquenessHashes
	assert.LessOrEqual(t, hashes[0], hashes[1])
}

func TestGenerateScoreBounds(t *testing.T) {
	inputs := []string{
		`[{"user": "Hello there friendly assistant", "bot": "Greetings traveler, welcome aboard today"}]`,
		`[{"user": "a", "bot": "b"}, {"user": "a", "bot": "b"}, {"user": "a", "bot": "b"}]`,
	}

	for _, input := range inputs {
		res, err := testEngine().Generate(context.Background(), strings.NewReader(input))
		require.NoError(t, err)

		for name, v := range map[string]float64{
			"score":      res.Score,
			"quality":    res.Quality,
			"uniqueness": res.Uniqueness,
			"length":     res.Attributes.AverageWordCountScore,
		} {
			assert.GreaterOrEqual(t, v, 0.0, name)
			assert.LessOrEqual(t, v, 1.0, name)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	input := `[
		{"user": "Describe the water cycle briefly", "bot": "Water evaporates, condenses into clouds and returns as rain feeding rivers and lakes"},
		{"user": "What makes the sky blue?", "bot": "Air molecules scatter short blue wavelengths of sunlight more strongly than red ones"}
	]`

	first, err := testEngine().Generate(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	second, err := testEngine().Generate(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	// Identical modulo the per-run id.
	assert.Equal(t, first.Valid, second.Valid)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Quality, second.Quality)
	assert.Equal(t, first.Uniqueness, second.Uniqueness)
	assert.Equal(t, first.Attributes, second.Attributes)
	assert.Equal(t, first.Metadata.AllUniquenessHashes, second.Metadata.AllUniquenessHashes)
}

func TestGenerateNegativeQualityGated(t *testing.T) {
	embedder := &mockEmbedder{vectors: map[string][]float32{
		"north": {1, 0},
		"south": {-1, 0},
	}}
	engine := NewEngine(embedder, config.Default())

	res, err := engine.Generate(context.Background(), strings.NewReader(`[{"user": "north", "bot": "south"}]`))
	require.ErrorIs(t, err, ErrNoValidConversations)
	assert.False(t, res.Valid)
	assert.Equal(t, 0.0, res.Quality)
}
