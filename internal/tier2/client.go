// Package tier2 talks to the remote cross-submission uniqueness
// oracle. The call is a single blocking round trip with a bounded
// timeout; retry policy belongs to the caller.
package tier2

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/nativya/nativya-scoring-engine/internal/config"
)

// GlobalUniquenessResponse is the oracle's verdict over a fingerprint
// list. Scores are in [0,1].
type GlobalUniquenessResponse struct {
	GlobalUniquenessScore float64 `json:"global_uniqueness_score"`
}

type queryRequest struct {
	Fingerprints []string `json:"fingerprints"`
}

type Client struct {
	http   *http.Client
	url    string
	apiKey string
}

func NewClient(cfg config.Tier2Config) *Client {
	return &Client{
		http:   &http.Client{Timeout: cfg.Timeout()},
		url:    cfg.URL,
		apiKey: cfg.APIKey,
	}
}

// Query submits a fingerprint list and returns the global uniqueness
// score. An empty list is trivially unique and never leaves the
// process. Timeouts and non-2xx responses are fatal to this call.
func (c *Client) Query(ctx context.Context, fingerprints []string) (*GlobalUniquenessResponse, error) {
	if len(fingerprints) == 0 {
		return &GlobalUniquenessResponse{GlobalUniquenessScore: 1.0}, nil
	}

	body, err := json.Marshal(queryRequest{Fingerprints: fingerprints})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tier-2 call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tier-2 returned status %d: %s", resp.StatusCode, msg)
	}

	var out GlobalUniquenessResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode tier-2 response: %w", err)
	}
	return &out, nil
}
