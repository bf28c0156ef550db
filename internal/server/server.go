package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nativya/nativya-scoring-engine/internal/config"
	"github.com/nativya/nativya-scoring-engine/internal/ingest"
	"github.com/nativya/nativya-scoring-engine/internal/llm"
	"github.com/nativya/nativya-scoring-engine/internal/proof"
)

type Server struct {
	Engine *proof.Engine
	Config *config.Config
}

func NewServer(cfg *config.Config) *Server {
	embedder, err := llm.NewEmbedder(context.Background(), cfg.Embedder)
	if err != nil {
		log.Fatalf("Failed to initialize embedder: %v", err)
	}

	return &Server{
		Engine: proof.NewEngine(embedder, cfg),
		Config: cfg,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", s.Health)
	r.POST("/proof", s.GenerateProof)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GenerateProof accepts a request envelope (or a bare conversation
// array) and streams it straight into the engine without buffering the
// body. The response is the proof object; abort paths still return a
// well-formed invalid proof.
func (s *Server) GenerateProof(c *gin.Context) {
	result, err := s.Engine.Generate(c.Request.Context(), c.Request.Body)
	if err != nil {
		log.Printf("Proof generation failed: %v", err)
		switch {
		case errors.Is(err, ingest.ErrMalformedBatch):
			c.JSON(http.StatusBadRequest, result)
		case errors.Is(err, proof.ErrNoValidConversations):
			c.JSON(http.StatusOK, result)
		default:
			c.JSON(http.StatusInternalServerError, result)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
