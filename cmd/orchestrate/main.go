package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/nativya/nativya-scoring-engine/internal/config"
	"github.com/nativya/nativya-scoring-engine/internal/llm"
	"github.com/nativya/nativya-scoring-engine/internal/orchestrator"
	"github.com/nativya/nativya-scoring-engine/internal/proof"
	"github.com/nativya/nativya-scoring-engine/internal/tier2"
)

// Two-tier coordinator: local proof first, then the global uniqueness
// oracle, recombined into the final verdict.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s /path/to/data.json\n", os.Args[0])
		os.Exit(1)
	}

	cfg := config.FromEnv()
	if cfg.Tier2.URL == "" {
		log.Fatal("TIER_2_API_URL is not set")
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to open batch file: %v", err)
	}
	defer f.Close()

	ctx := context.Background()
	embedder, err := llm.NewEmbedder(ctx, cfg.Embedder)
	if err != nil {
		log.Fatalf("Failed to initialize embedder: %v", err)
	}

	coord := orchestrator.NewCoordinator(
		&orchestrator.EngineRunner{Engine: proof.NewEngine(embedder, cfg)},
		tier2.NewClient(cfg.Tier2),
		cfg.Tier2,
	)

	verdict, err := coord.Run(ctx, f)
	if err != nil {
		log.Fatalf("Validation failed: %v", err)
	}

	fmt.Println("--- VALIDATION COMPLETE ---")
	fmt.Printf("Local Quality Score:     %.3f\n", verdict.Local.Quality)
	fmt.Printf("Global Uniqueness Score: %.3f\n", verdict.GlobalUniqueness)
	fmt.Printf("Final Weighted Score:    %.3f\n", verdict.FinalScore)
}
