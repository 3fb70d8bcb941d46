package generator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"ai4l/pkg/types"
)

// Service validates, admits and runs generation requests.
type Service struct {
	mu           sync.Mutex
	catalog      types.Catalog
	defaultModel string
	engine       Engine
	slots        map[string]*slot
	lastErr      string
	closed       bool

	maxQueueDepth int
	maxWait       time.Duration
	timeout       time.Duration

	generated atomic.Uint64
	failed    atomic.Uint64
	startTime time.Time
	log       zerolog.Logger
}

// Catalog returns the models and target modules requests may reference.
func (s *Service) Catalog() types.Catalog { return s.catalog.Clone() }

// EngineName returns the active engine.
func (s *Service) EngineName() string { return s.engine.Name() }

// Ready reports whether the service accepts generations.
func (s *Service) Ready() bool {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	return !closed && s.engine.Available() == nil
}

// Generate fills defaults, validates req, waits for admission on the target
// model and runs the engine.
func (s *Service) Generate(ctx context.Context, req types.GenerateRequest) (types.GenerateResponse, error) {
	resp, model, err := s.generate(ctx, req)
	outcome := "success"
	if err != nil {
		outcome = errorLabel(err)
		s.failed.Add(1)
		s.mu.Lock()
		s.lastErr = err.Error()
		s.mu.Unlock()
	} else {
		s.generated.Add(1)
	}
	if model == "" {
		model = "unknown"
	}
	generateTotal.WithLabelValues(model, outcome).Inc()
	return resp, err
}

func (s *Service) generate(ctx context.Context, req types.GenerateRequest) (types.GenerateResponse, string, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return types.GenerateResponse{}, "", ErrDependencyUnavailable("service is shutting down")
	}
	if err := s.engine.Available(); err != nil {
		return types.GenerateResponse{}, "", err
	}
	req = s.applyDefaults(req)
	model, err := s.validate(req)
	if err != nil {
		return types.GenerateResponse{}, "", err
	}
	req.Model = model.ID

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	release, err := s.beginGeneration(ctx, model.ID)
	if err != nil {
		return types.GenerateResponse{}, model.ID, err
	}
	defer release()

	start := time.Now()
	text, err := s.runEngine(ctx, model, req)
	generateDuration.WithLabelValues(model.ID).Observe(time.Since(start).Seconds())
	if err != nil {
		return types.GenerateResponse{}, model.ID, err
	}
	s.log.Debug().Str("model", model.ID).Int("lora_r", req.LoraR).Int("output_len", len(text)).Msg("generated")
	return types.GenerateResponse{GeneratedText: text, Status: types.StatusSuccess}, model.ID, nil
}

// runEngine recovers engine panics so one faulty request cannot take the
// process down.
func (s *Service) runEngine(ctx context.Context, model types.Model, req types.GenerateRequest) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine panic: %v", r)
			s.log.Error().Str("model", model.ID).Interface("panic", r).Msg("engine panic recovered")
		}
	}()
	return s.engine.Generate(ctx, model, req)
}

// Close stops accepting work and releases engine resources.
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.engine.Close()
}

func errorLabel(err error) string {
	switch {
	case IsInvalidParams(err):
		return "invalid_params"
	case IsModelNotFound(err):
		return "model_not_found"
	case IsTooBusy(err):
		return "too_busy"
	case IsDependencyUnavailable(err):
		return "unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
