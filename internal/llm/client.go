package llm

import (
	"context"
)

type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
