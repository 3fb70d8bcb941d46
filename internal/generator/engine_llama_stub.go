//go:build !llama

package generator

// This file provides a no-CGO stub for the llama engine. It is compiled when
// the 'llama' build tag is NOT set, keeping default builds CGO-free.

import (
	"context"

	"github.com/rs/zerolog"

	"ai4l/pkg/types"
)

var llamaBuilt = false

type llamaEngine struct{}

func newLlamaEngine(ctxSize, threads int, loraAdapter, loraBase string, log zerolog.Logger) Engine {
	return llamaEngine{}
}

func (llamaEngine) Name() string { return EngineLlama }

func (llamaEngine) Available() error {
	return ErrDependencyUnavailable("llama engine not built; rebuild with -tags=llama")
}

func (e llamaEngine) Generate(ctx context.Context, _ types.Model, _ types.GenerateRequest) (string, error) {
	return "", e.Available()
}

func (llamaEngine) Close() error { return nil }
