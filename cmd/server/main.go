package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/nativya/nativya-scoring-engine/internal/config"
	"github.com/nativya/nativya-scoring-engine/internal/server"
)

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

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := server.NewServer(cfg)
	r := srv.SetupRouter()

	log.Printf("Starting scoring server on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
