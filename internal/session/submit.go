package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ai4l/pkg/types"
)

type submissionIDKey struct{}

// SubmissionID returns the id of the submission that issued ctx, or "".
// Generators forward it to the service as the request id.
func SubmissionID(ctx context.Context) string {
	id, _ := ctx.Value(submissionIDKey{}).(string)
	return id
}

// Outcome is the resolution of one submission.
type Outcome struct {
	ID string
	// Request is the payload that was sent.
	Request types.GenerateRequest
	// Phase is PhaseSucceeded or PhaseFailed.
	Phase    Phase
	Output   string
	Err      *ErrorInfo
	Duration time.Duration
}

// CanSubmit reports whether Start would issue a request.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSubmitLocked() == nil
}

func (c *Controller) canSubmitLocked() error {
	if strings.TrimSpace(c.params.SourceText) == "" {
		return errEmptyText
	}
	if c.phase == PhaseSubmitting {
		return errInFlight
	}
	return nil
}

// Start captures the payload, enters PhaseSubmitting and issues exactly one
// Generator call in the background. The returned channel yields the outcome
// once the state has been updated, then closes.
//
// When CanSubmit is false nothing changes, no call is made and a
// *ValidationError is returned.
func (c *Controller) Start(ctx context.Context) (<-chan Outcome, error) {
	c.mu.Lock()
	if err := c.canSubmitLocked(); err != nil {
		c.mu.Unlock()
		c.log.Debug().Err(err).Msg("submit rejected")
		return nil, err
	}
	req := c.payloadLocked()
	id := uuid.NewString()
	c.phase = PhaseSubmitting
	c.submissionID = id
	c.submissions++
	c.mu.Unlock()

	c.log.Info().Str("submission_id", id).Str("model", req.Model).Int("text_len", len(req.Text)).Msg("submit start")

	done := make(chan Outcome, 1)
	go func() {
		defer close(done)
		done <- c.run(ctx, id, req)
	}()
	return done, nil
}

// Submit is Start followed by waiting for the outcome. Transport and shape
// failures are not returned: they are recorded in the session state and in
// Outcome.Err. The error result is reserved for local rejections.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	done, err := c.Start(ctx)
	if err != nil {
		return Outcome{}, err
	}
	return <-done, nil
}

func (c *Controller) run(ctx context.Context, id string, req types.GenerateRequest) Outcome {
	ctx = context.WithValue(ctx, submissionIDKey{}, id)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	start := time.Now()
	// The Generator receives its own copy; req stays as sent.
	resp, err := c.generate(ctx, req.Clone())
	out := Outcome{ID: id, Request: req, Duration: time.Since(start)}

	c.mu.Lock()
	if err != nil {
		c.phase = PhaseFailed
		c.lastErr = describe(err)
		e := *c.lastErr
		out.Err = &e
	} else {
		c.phase = PhaseSucceeded
		c.output = resp.GeneratedText
		c.lastErr = nil
		out.Output = resp.GeneratedText
	}
	out.Phase = c.phase
	c.mu.Unlock()

	if out.Err != nil {
		c.log.Warn().Str("submission_id", id).Str("kind", string(out.Err.Kind)).Dur("dur", out.Duration).Msg(out.Err.Message)
	} else {
		c.log.Info().Str("submission_id", id).Int("output_len", len(out.Output)).Dur("dur", out.Duration).Msg("submit end")
	}
	return out
}

// generate calls the Generator, turning a panic into an error so a faulty
// Generator cannot leave the session stuck in PhaseSubmitting.
func (c *Controller) generate(ctx context.Context, req types.GenerateRequest) (resp types.GenerateResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()
	return c.gen.Generate(ctx, req)
}
