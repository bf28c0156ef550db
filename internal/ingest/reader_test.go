package ingest

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, r *Reader) []Turn {
	t.Helper()
	var turns []Turn
	for {
		raw, err := r.Next()
		if errors.Is(err, io.EOF) {
			return turns
		}
		require.NoError(t, err)
		turn, err := ParseRecord(raw)
		require.NoError(t, err)
		turns = append(turns, turn)
	}
}

func TestReaderBareArray(t *testing.T) {
	input := `[
		{"user": "Hello", "bot": "Hi there"},
		{"user": "How are you?", "bot": "Doing well"}
	]`

	r := NewReader(strings.NewReader(input))
	turns := drain(t, r)

	require.Len(t, turns, 2)
	assert.Equal(t, "Hello", turns[0].User)
	assert.Equal(t, "Hi there", turns[0].Bot)
	assert.Equal(t, "How are you?", turns[1].User)
	assert.Empty(t, r.UniquenessHashes())
}

func TestReaderConversationsObject(t *testing.T) {
	input := `{
		"uniqueness_hashes": ["111", "222"],
		"conversations": [
			{"user": "a", "bot": "b"}
		]
	}`

	r := NewReader(strings.NewReader(input))
	turns := drain(t, r)

	require.Len(t, turns, 1)
	assert.Equal(t, []string{"111", "222"}, r.UniquenessHashes())
}

func TestReaderRequestEnvelope(t *testing.T) {
	// prompt/answer naming, metadata keys and hashes trailing the array.
	input := `{
		"job_id": 42,
		"file_id": "f-1",
		"nonce": "abc",
		"conversations": [
			{"prompt": "What is Go?", "answer": "A programming language."},
			{"prompt": "Thanks", "answer": "You're welcome"}
		],
		"uniqueness_hashes": ["999"]
	}`

	r := NewReader(strings.NewReader(input))
	turns := drain(t, r)

	require.Len(t, turns, 2)
	assert.Equal(t, "What is Go?", turns[0].User)
	assert.Equal(t, "A programming language.", turns[0].Bot)
	assert.Equal(t, []string{"999"}, r.UniquenessHashes())
}

func TestReaderPreservesOrder(t *testing.T) {
	input := `[{"user":"1","bot":"x"},{"user":"2","bot":"x"},{"user":"3","bot":"x"}]`

	r := NewReader(strings.NewReader(input))
	turns := drain(t, r)

	require.Len(t, turns, 3)
	for i, turn := range turns {
		assert.Equal(t, string(rune('1'+i)), turn.User)
	}
}

func TestReaderMalformedBatch(t *testing.T) {
	cases := []string{
		`"just a string"`,
		`{"conversations": 42}`,
		`[{"user": "a", "bot": "b"`,
		``,
	}

	for _, input := range cases {
		r := NewReader(strings.NewReader(input))
		for {
			_, err := r.Next()
			if err != nil {
				assert.ErrorIs(t, err, ErrMalformedBatch, "input: %s", input)
				break
			}
		}
	}
}

func TestReaderEmptyArray(t *testing.T) {
	r := NewReader(strings.NewReader(`[]`))
	_, err := r.Next()
	assert.ErrorIs(t, err, io.EOF)
}
