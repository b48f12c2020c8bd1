package digest

import (
	"context"
	"strings"

	"github.com/ryosukesatoh/gov-digest/internal/retry"
)

// Generator matches internal/generator.Generator; declared here so the core
// depends only on the call shape.
type Generator interface {
	Generate(ctx context.Context, roleInstruction, taskPrompt string) (string, error)
}

// generate issues one generation call through the retry policy and returns
// the whitespace-trimmed result. An error means retries were exhausted; the
// current day or week must not be persisted.
func generate(ctx context.Context, gen Generator, cfg retry.Config, roleInstruction, taskPrompt string) (string, error) {
	var out string
	err := retry.WithBackoff(ctx, cfg, func(ctx context.Context) error {
		text, err := gen.Generate(ctx, roleInstruction, taskPrompt)
		if err != nil {
			return err
		}
		out = strings.TrimSpace(text)
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}
