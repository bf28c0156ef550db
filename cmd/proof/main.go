package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/nativya/nativya-scoring-engine/internal/config"
	"github.com/nativya/nativya-scoring-engine/internal/llm"
	"github.com/nativya/nativya-scoring-engine/internal/proof"
)

// Tier-1 entrypoint: reads the batch from the input directory, writes
// the proof to output/results.json and prints it.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfg := config.FromEnv()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		cfg = loaded
	}

	inputDir := os.Getenv("INPUT_DIR")
	if inputDir == "" {
		inputDir = "./input"
	}
	outputDir := os.Getenv("OUTPUT_DIR")
	if outputDir == "" {
		outputDir = "./output"
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	inputPath := filepath.Join(inputDir, "data.json")
	f, err := os.Open(inputPath)
	if err != nil {
		log.Printf("Input file not found: %s", inputPath)
		writeResult(outputDir, &proof.Result{
			DLPID: cfg.DLPID,
			Valid: false,
			Attributes: proof.Attributes{
				Error: "data.json not found in " + inputDir,
			},
			Metadata: proof.Metadata{AllUniquenessHashes: []string{}},
		})
		os.Exit(1)
	}
	defer f.Close()

	embedder, err := llm.NewEmbedder(context.Background(), cfg.Embedder)
	if err != nil {
		log.Fatalf("Failed to initialize embedder: %v", err)
	}

	engine := proof.NewEngine(embedder, cfg)
	result, err := engine.Generate(context.Background(), f)
	if err != nil {
		log.Printf("Proof generation failed: %v", err)
	}

	writeResult(outputDir, result)

	out, _ := json.MarshalIndent(result, "", "  ")
	log.Printf("Proof saved to %s", filepath.Join(outputDir, "results.json"))
	log.Println(string(out))

	if !result.Valid {
		os.Exit(1)
	}
}

func writeResult(outputDir string, result *proof.Result) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode proof: %v", err)
	}
	path := filepath.Join(outputDir, "results.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
}
