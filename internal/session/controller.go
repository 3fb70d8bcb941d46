package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"ai4l/internal/registry"
	"ai4l/pkg/types"
)

// Generator issues one generation call. Implementations report transport
// problems as *TransportError and malformed bodies as *ResponseShapeError.
type Generator interface {
	Generate(ctx context.Context, req types.GenerateRequest) (types.GenerateResponse, error)
}

// Controller owns one session's GenerationRequestState.
type Controller struct {
	mu      sync.Mutex
	gen     Generator
	catalog types.Catalog
	log     zerolog.Logger

	// sendTopP includes top_p in the payload. Off by default: the service
	// contract does not list it.
	sendTopP bool
	// timeout bounds each submission; 0 leaves it to the Generator.
	timeout time.Duration

	params       Params
	phase        Phase
	output       string
	lastErr      *ErrorInfo
	submissionID string
	submissions  int
}

// Option configures a Controller.
type Option func(*Controller)

// WithCatalog sets the enumerations used to validate model and target module
// writes. The first model becomes the default.
func WithCatalog(c types.Catalog) Option {
	return func(ctl *Controller) { ctl.catalog = c.Clone() }
}

// WithLogger installs a structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(ctl *Controller) { ctl.log = l }
}

// WithTopP controls whether top_p is transmitted.
func WithTopP(send bool) Option {
	return func(ctl *Controller) { ctl.sendTopP = send }
}

// WithTimeout bounds each submission. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(ctl *Controller) {
		if d < 0 {
			d = 0
		}
		ctl.timeout = d
	}
}

// New returns an Idle controller with default parameters.
func New(gen Generator, opts ...Option) *Controller {
	c := &Controller{
		gen:     gen,
		catalog: registry.Builtin(),
		log:     zerolog.Nop(),
		phase:   PhaseIdle,
	}
	for _, o := range opts {
		o(c)
	}
	c.params = DefaultParams(c.catalog)
	return c
}

// Catalog returns the enumerations this controller validates against.
func (c *Controller) Catalog() types.Catalog { return c.catalog.Clone() }

// State returns a snapshot of the session.
func (c *Controller) State() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		Params:       c.params.clone(),
		Phase:        c.phase,
		OutputText:   c.output,
		SubmissionID: c.submissionID,
		Submissions:  c.submissions,
		CanSubmit:    c.canSubmitLocked() == nil,
	}
	if c.lastErr != nil {
		e := *c.lastErr
		v.LastError = &e
	}
	return v
}

// Payload returns the request the current parameters would produce.
func (c *Controller) Payload() types.GenerateRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payloadLocked()
}

// ResetParams restores the default parameters. Source text, phase, output
// and lastError are left alone; an in-flight payload is unaffected.
func (c *Controller) ResetParams() {
	c.mu.Lock()
	defer c.mu.Unlock()
	text := c.params.SourceText
	c.params = DefaultParams(c.catalog)
	c.params.SourceText = text
}

func (c *Controller) payloadLocked() types.GenerateRequest {
	p := c.params
	req := types.GenerateRequest{
		Text:          strings.TrimSpace(p.SourceText),
		Temperature:   p.Temperature,
		MaxTokens:     p.MaxTokens,
		Model:         p.Model,
		LoraR:         p.LoraRank,
		LoraAlpha:     p.LoraAlpha,
		LoraDropout:   p.LoraDropout,
		TargetModules: append([]string{}, p.TargetModules...),
	}
	if c.sendTopP {
		topP := p.TopP
		req.TopP = &topP
	}
	return req
}
