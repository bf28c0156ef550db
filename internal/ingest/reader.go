package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedBatch means the top-level JSON is not one of the accepted
// batch shapes: a bare array, an object with a "conversations" array, or
// a request envelope carrying one.
var ErrMalformedBatch = errors.New("malformed batch")

// Reader streams conversation records out of a batch source without
// materializing the whole document. Records come back in input order as
// raw JSON; Next returns io.EOF once the source is exhausted.
//
// The reader is forward-only and not restartable. UniquenessHashes is
// only guaranteed complete after Next has returned io.EOF, since the
// "uniqueness_hashes" key may follow the conversations array.
type Reader struct {
	dec     *json.Decoder
	started bool
	inArray bool
	// true when streaming a "conversations" array nested in an object,
	// so trailing object keys still need to be consumed.
	inObject bool
	finished bool
	hashes   []string
}

func NewReader(r io.Reader) *Reader {
	return &Reader{dec: json.NewDecoder(r)}
}

// Next returns the next raw record, io.EOF at the end of the batch, or
// an error wrapping ErrMalformedBatch when the source cannot be parsed.
func (r *Reader) Next() (json.RawMessage, error) {
	if r.finished {
		return nil, io.EOF
	}
	if !r.started {
		if err := r.start(); err != nil {
			return nil, err
		}
	}

	if r.inArray {
		if r.dec.More() {
			var raw json.RawMessage
			if err := r.dec.Decode(&raw); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedBatch, err)
			}
			return raw, nil
		}
		// Consume the closing ']'.
		if _, err := r.dec.Token(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBatch, err)
		}
		r.inArray = false
		if !r.inObject {
			r.finished = true
			return nil, io.EOF
		}
	}

	if r.inObject {
		if err := r.scanObject(); err != nil {
			return nil, err
		}
		if r.inArray {
			return r.Next()
		}
	}

	r.finished = true
	return nil, io.EOF
}

// UniquenessHashes returns the external hashes carried alongside the
// batch, if any. They are not used for local scoring.
func (r *Reader) UniquenessHashes() []string {
	return r.hashes
}

func (r *Reader) start() error {
	r.started = true
	tok, err := r.dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBatch, err)
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return fmt.Errorf("%w: top-level value is not an array or object", ErrMalformedBatch)
	}
	switch delim {
	case '[':
		r.inArray = true
		return nil
	case '{':
		r.inObject = true
		return r.scanObject()
	default:
		return fmt.Errorf("%w: unexpected delimiter %q", ErrMalformedBatch, delim.String())
	}
}

// scanObject walks object keys until it either opens the conversations
// array (leaving the decoder positioned at its items) or reaches the
// closing brace.
func (r *Reader) scanObject() error {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedBatch, err)
		}
		if delim, ok := tok.(json.Delim); ok {
			if delim == '}' {
				r.inObject = false
				return nil
			}
			return fmt.Errorf("%w: unexpected delimiter %q", ErrMalformedBatch, delim.String())
		}

		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: object key is not a string", ErrMalformedBatch)
		}

		switch key {
		case "conversations":
			tok, err := r.dec.Token()
			if err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedBatch, err)
			}
			if delim, ok := tok.(json.Delim); !ok || delim != '[' {
				return fmt.Errorf("%w: 'conversations' is not an array", ErrMalformedBatch)
			}
			r.inArray = true
			return nil
		case "uniqueness_hashes":
			if err := r.dec.Decode(&r.hashes); err != nil {
				return fmt.Errorf("%w: invalid uniqueness_hashes: %v", ErrMalformedBatch, err)
			}
		default:
			// Envelope metadata (job_id, file_id, nonce, ...) is not
			// needed for scoring; skip the value.
			var skip json.RawMessage
			if err := r.dec.Decode(&skip); err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedBatch, err)
			}
		}
	}
}
