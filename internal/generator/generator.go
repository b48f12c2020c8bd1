package generator

import (
	"context"
	"fmt"

	"github.com/ryosukesatoh/gov-digest/internal/config"
)

// Generator produces free-form text from a role instruction and a task
// prompt. Implementations may fail transiently; callers wrap calls in the
// retry package.
type Generator interface {
	Generate(ctx context.Context, roleInstruction, taskPrompt string) (string, error)
}

// New creates a new generator based on the configuration
func New(cfg *config.Config) (Generator, error) {
	switch cfg.Generator.Type {
	case "openrouter":
		return NewOpenRouterClient(cfg.Generator), nil
	default:
		return nil, ErrUnsupportedGeneratorType
	}
}

// ErrUnsupportedGeneratorType is returned when an unsupported generator type is specified
var ErrUnsupportedGeneratorType = fmt.Errorf("unsupported generator type")
