package generator

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ai4l/pkg/types"
)

// Engine produces text for a validated request.
type Engine interface {
	Name() string
	// Available returns nil when the engine can serve requests.
	Available() error
	Generate(ctx context.Context, model types.Model, req types.GenerateRequest) (string, error)
	Close() error
}

// echoPrefixRunes is how much of the sample text the echo engine quotes.
const echoPrefixRunes = 50

// echoEngine reports what it was asked to do without running a model.
type echoEngine struct{}

func (echoEngine) Name() string { return EngineEcho }
func (echoEngine) Available() error { return nil }
func (echoEngine) Close() error { return nil }

func (echoEngine) Generate(ctx context.Context, _ types.Model, req types.GenerateRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text := []rune(req.Text)
	if len(text) > echoPrefixRunes {
		text = text[:echoPrefixRunes]
	}
	return fmt.Sprintf("Generated text based on: '%s...' with temperature %s",
		string(text), formatTemperature(req.Temperature)), nil
}

// formatTemperature prints the shortest decimal form, keeping ".0" on whole
// numbers so 1 reads as 1.0.
func formatTemperature(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
