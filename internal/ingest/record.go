package ingest

import (
	"encoding/json"
	"fmt"
)

// Turn is a single validated user/bot exchange. Immutable once built.
type Turn struct {
	User string
	Bot  string
}

// Combined returns the text the scorers and the fingerprint engine
// operate on.
func (t Turn) Combined() string {
	return t.User + " " + t.Bot
}

// RecordError reports why a single record failed validation. The batch
// walk skips and counts these rather than aborting.
type RecordError struct {
	Field  string
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("malformed record: field '%s' %s", e.Field, e.Reason)
}

// rawRecord accepts both the native {user, bot} naming and the request
// envelope's {prompt, answer} naming.
type rawRecord struct {
	User   *string `json:"user"`
	Bot    *string `json:"bot"`
	Prompt *string `json:"prompt"`
	Answer *string `json:"answer"`
}

// ParseRecord validates one raw record and normalizes it to a Turn.
func ParseRecord(raw json.RawMessage) (Turn, error) {
	var rec rawRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Turn{}, &RecordError{Field: "record", Reason: "is not an object with text fields"}
	}

	user := rec.User
	if user == nil {
		user = rec.Prompt
	}
	bot := rec.Bot
	if bot == nil {
		bot = rec.Answer
	}

	if user == nil {
		return Turn{}, &RecordError{Field: "user", Reason: "is missing or not a string"}
	}
	if bot == nil {
		return Turn{}, &RecordError{Field: "bot", Reason: "is missing or not a string"}
	}

	return Turn{User: *user, Bot: *bot}, nil
}
