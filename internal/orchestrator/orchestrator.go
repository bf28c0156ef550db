// Package orchestrator composes the local proof run and the remote
// uniqueness oracle into a final cross-submission verdict. The two
// steps are separate service boundaries, executed sequentially.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/nativya/nativya-scoring-engine/internal/config"
	"github.com/nativya/nativya-scoring-engine/internal/proof"
	"github.com/nativya/nativya-scoring-engine/internal/tier2"
)

// LocalProofRunner produces the tier-1 proof artifact for a batch
// source.
type LocalProofRunner interface {
	Run(ctx context.Context, source io.Reader) (*proof.Result, error)
}

// UniquenessOracle is the tier-2 collaborator. This is the one seam
// where retry/backoff can be added without touching the scoring core.
type UniquenessOracle interface {
	Query(ctx context.Context, fingerprints []string) (*tier2.GlobalUniquenessResponse, error)
}

// EngineRunner runs the proof engine in-process.
type EngineRunner struct {
	Engine *proof.Engine
}

func (r *EngineRunner) Run(ctx context.Context, source io.Reader) (*proof.Result, error) {
	return r.Engine.Generate(ctx, source)
}

// Verdict is the recombined two-tier outcome. It is a new value, not a
// mutation of the local proof.
type Verdict struct {
	Local            *proof.Result
	GlobalUniqueness float64
	FinalScore       float64
}

type Coordinator struct {
	Runner LocalProofRunner
	Oracle UniquenessOracle
	Tier2  config.Tier2Config
}

func NewCoordinator(runner LocalProofRunner, oracle UniquenessOracle, cfg config.Tier2Config) *Coordinator {
	return &Coordinator{
		Runner: runner,
		Oracle: oracle,
		Tier2:  cfg,
	}
}

// Run executes the local proof, halts if it is invalid, then queries
// the oracle and recombines local quality with global uniqueness.
// Oracle failures are fatal; the local proof is still returned inside
// the error path's Verdict so callers can persist the tier-1 artifact.
func (c *Coordinator) Run(ctx context.Context, source io.Reader) (*Verdict, error) {
	local, err := c.Runner.Run(ctx, source)
	if err != nil {
		return &Verdict{Local: local}, fmt.Errorf("local proof failed: %w", err)
	}
	if !local.Valid {
		return &Verdict{Local: local}, fmt.Errorf("local proof marked the batch invalid: %s", local.Attributes.Error)
	}

	log.Printf("Local proof valid (quality=%.4f), querying uniqueness oracle", local.Quality)

	resp, err := c.Oracle.Query(ctx, local.Metadata.AllUniquenessHashes)
	if err != nil {
		return &Verdict{Local: local}, fmt.Errorf("uniqueness oracle failed: %w", err)
	}

	final := c.Tier2.QualityWeight*local.Quality +
		c.Tier2.UniquenessWeight*resp.GlobalUniquenessScore

	return &Verdict{
		Local:            local,
		GlobalUniqueness: resp.GlobalUniquenessScore,
		FinalScore:       final,
	}, nil
}
