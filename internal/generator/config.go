package generator

import (
	"time"

	"github.com/rs/zerolog"

	"ai4l/internal/registry"
	"ai4l/pkg/types"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultMaxQueueDepth = 32
	defaultMaxWait       = 30 * time.Second
	defaultEngine        = EngineEcho
)

// Engine names accepted by Config.Engine.
const (
	EngineEcho  = "echo"
	EngineLlama = "llama"
)

// Config encapsulates all tunables for Service construction.
type Config struct {
	// Catalog lists servable models and target modules. Empty uses registry.Builtin.
	Catalog types.Catalog
	// DefaultModel is used when a request omits model. Empty uses the first catalog model.
	DefaultModel  string
	MaxQueueDepth int
	MaxWait       time.Duration
	// Timeout bounds a single generation; 0 disables.
	Timeout time.Duration
	// Engine selects the backend: "echo" (default) or "llama".
	Engine string
	// llama.cpp configuration, used by the llama engine only.
	LlamaCtx     int
	LlamaThreads int
	LoraAdapter  string
	LoraBase     string
	Logger       *zerolog.Logger
}

// NewWithConfig constructs a Service from Config.
func NewWithConfig(cfg Config) (*Service, error) {
	s := &Service{
		catalog:      cfg.Catalog.Clone(),
		defaultModel: cfg.DefaultModel,
		timeout:      cfg.Timeout,
		slots:        make(map[string]*slot),
		log:          zerolog.Nop(),
		startTime:    time.Now(),
	}
	if len(s.catalog.Models) == 0 {
		s.catalog = registry.Builtin()
	}
	if s.defaultModel == "" {
		s.defaultModel = s.catalog.DefaultModel()
	}
	if _, ok := s.catalog.Model(s.defaultModel); !ok {
		return nil, ErrModelNotFound(s.defaultModel)
	}
	if cfg.MaxQueueDepth <= 0 {
		s.maxQueueDepth = defaultMaxQueueDepth
	} else {
		s.maxQueueDepth = cfg.MaxQueueDepth
	}
	if cfg.MaxWait <= 0 {
		s.maxWait = defaultMaxWait
	} else {
		s.maxWait = cfg.MaxWait
	}
	if s.timeout < 0 {
		s.timeout = 0
	}
	if cfg.Logger != nil {
		s.log = *cfg.Logger
	}
	name := cfg.Engine
	if name == "" {
		name = defaultEngine
	}
	switch name {
	case EngineEcho:
		s.engine = echoEngine{}
	case EngineLlama:
		s.engine = newLlamaEngine(cfg.LlamaCtx, cfg.LlamaThreads, cfg.LoraAdapter, cfg.LoraBase, s.log)
	default:
		return nil, ErrInvalidParams("unknown engine: " + name)
	}
	return s, nil
}

// New constructs an echo-engine Service over the built-in catalog.
func New() *Service {
	s, err := NewWithConfig(Config{})
	if err != nil {
		// Builtin catalog always contains its own default.
		panic(err)
	}
	return s
}
