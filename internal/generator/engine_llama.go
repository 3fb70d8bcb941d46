//go:build llama

package generator

import (
	"context"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"
	"github.com/rs/zerolog"

	"ai4l/pkg/types"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

// llamaEngine runs discovered *.gguf models in-process. A configured LoRA
// adapter is applied to every model it loads.
type llamaEngine struct {
	ctxSize     int
	threads     int
	loraAdapter string
	loraBase    string
	log         zerolog.Logger

	mu     sync.Mutex
	models map[string]*llama.LLama // by model path
}

func newLlamaEngine(ctxSize, threads int, loraAdapter, loraBase string, log zerolog.Logger) Engine {
	return &llamaEngine{
		ctxSize:     ctxSize,
		threads:     threads,
		loraAdapter: loraAdapter,
		loraBase:    loraBase,
		log:         log,
		models:      make(map[string]*llama.LLama),
	}
}

func (e *llamaEngine) Name() string { return EngineLlama }
func (e *llamaEngine) Available() error { return nil }

func (e *llamaEngine) load(path string) (*llama.LLama, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if m, ok := e.models[path]; ok {
		return m, nil
	}
	mo := []llama.ModelOption{llama.SetContext(zn(e.ctxSize, 2048))}
	if e.loraAdapter != "" {
		mo = append(mo, llama.SetLoraAdapter(e.loraAdapter))
		if e.loraBase != "" {
			mo = append(mo, llama.SetLoraBase(e.loraBase))
		}
	}
	m, err := llama.New(path, mo...)
	if err != nil {
		return nil, err
	}
	e.models[path] = m
	return m, nil
}

func (e *llamaEngine) Generate(ctx context.Context, model types.Model, req types.GenerateRequest) (string, error) {
	if strings.TrimSpace(model.Path) == "" {
		return "", ErrDependencyUnavailable("model " + model.ID + " has no local weights")
	}
	m, err := e.load(model.Path)
	if err != nil {
		return "", err
	}
	e.log.Debug().
		Str("model", model.ID).
		Int("lora_r", req.LoraR).
		Int("lora_alpha", req.LoraAlpha).
		Float64("lora_dropout", req.LoraDropout).
		Strs("target_modules", req.TargetModules).
		Msg("lora settings are training parameters; using configured adapter")

	m.SetTokenCallback(func(string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	})
	text, err := m.Predict(req.Text, mapPredictOptions(req, e.threads)...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return text, nil
}

func (e *llamaEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for p, m := range e.models {
		m.Free()
		delete(e.models, p)
	}
	return nil
}

func zn(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// mapPredictOptions converts request parameters into go-llama.cpp options.
func mapPredictOptions(req types.GenerateRequest, threads int) []llama.PredictOption {
	topP := llama.DefaultOptions.TopP
	if req.TopP != nil {
		topP = float32(*req.TopP)
	}
	return []llama.PredictOption{
		llama.SetTokens(max(1, req.MaxTokens)),
		llama.SetThreads(max(1, threads)),
		llama.SetTopP(topP),
		llama.SetTemperature(float32(req.Temperature)),
	}
}
