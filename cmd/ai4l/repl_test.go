package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"

	"ai4l/internal/session"
	"ai4l/pkg/types"
)

type stubGenerator struct {
	mu   sync.Mutex
	reqs []types.GenerateRequest
	err  error
}

func (g *stubGenerator) Generate(ctx context.Context, req types.GenerateRequest) (types.GenerateResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reqs = append(g.reqs, req)
	if g.err != nil {
		return types.GenerateResponse{}, g.err
	}
	return types.GenerateResponse{GeneratedText: "echo: " + req.Text, Status: types.StatusSuccess}, nil
}

func runScript(t *testing.T, gen session.Generator, script string) string {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	r := newREPL(session.New(gen), &out)
	if err := r.run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("repl: %v", err)
	}
	return out.String()
}

func TestREPL_SetSubmitShow(t *testing.T) {
	gen := &stubGenerator{}
	out := runScript(t, gen, strings.Join([]string{
		"text Hello",
		"set temperature 1.7",
		"set rank 100",
		"set modules query,value,query",
		"submit",
		"wait",
		"show",
		"quit",
	}, "\n"))
	for _, want := range []string{
		"temperature = 1.00",
		"lora_r = 64",
		"target_modules = query,value",
		"echo: Hello",
		"succeeded",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if len(gen.reqs) != 1 || gen.reqs[0].Temperature != 1.0 || gen.reqs[0].LoraR != 64 {
		t.Fatalf("unexpected requests: %+v", gen.reqs)
	}
}

func TestREPL_SubmitWithoutTextRejected(t *testing.T) {
	gen := &stubGenerator{}
	out := runScript(t, gen, "submit\n")
	if len(gen.reqs) != 0 {
		t.Fatalf("generator must not be called")
	}
	if !strings.Contains(out, "source_text") {
		t.Fatalf("expected a validation message, got:\n%s", out)
	}
}

func TestREPL_InvalidInputKeepsValue(t *testing.T) {
	out := runScript(t, &stubGenerator{}, "set temperature hot\nset model gpt-9\nshow\n")
	if !strings.Contains(out, "not a number") || !strings.Contains(out, "unknown model") {
		t.Fatalf("expected rejections, got:\n%s", out)
	}
	if !strings.Contains(out, "0.70") || !strings.Contains(out, "mistral-7b v0.1") {
		t.Fatalf("prior values not kept:\n%s", out)
	}
}

func TestREPL_FailureShown(t *testing.T) {
	gen := &stubGenerator{err: &session.TransportError{StatusCode: 503, Message: "llama engine not built"}}
	out := runScript(t, gen, "text Hi\nsubmit\nwait\nshow\n")
	if !strings.Contains(out, "generation failed") || !strings.Contains(out, "HTTP 503") {
		t.Fatalf("failure not reported:\n%s", out)
	}
	if !strings.Contains(out, "failed") {
		t.Fatalf("phase not shown:\n%s", out)
	}
}

func TestREPL_MultiLineTextAndPayload(t *testing.T) {
	out := runScript(t, &stubGenerator{}, "text\nfirst line\nsecond line\n.\npayload\n")
	if !strings.Contains(out, `"text": "first line\nsecond line"`) {
		t.Fatalf("multi-line text not in payload:\n%s", out)
	}
	if strings.Contains(out, "top_p") {
		t.Fatalf("top_p must not be sent by default:\n%s", out)
	}
}

func TestREPL_UnknownCommandAndReset(t *testing.T) {
	out := runScript(t, &stubGenerator{}, "frobnicate\nset max_tokens 2000\nreset\nshow\n")
	if !strings.Contains(out, `unknown command "frobnicate"`) {
		t.Fatalf("missing unknown-command message:\n%s", out)
	}
	if !strings.Contains(out, "max_tokens = 1000") || !strings.Contains(out, "parameters reset") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if i := strings.LastIndex(out, "max_tokens"); !strings.Contains(out[i:], "350") {
		t.Fatalf("reset did not restore max_tokens:\n%s", out)
	}
}

func TestREPL_EOFWaitsForInFlight(t *testing.T) {
	gen := &stubGenerator{}
	out := runScript(t, gen, "text Bye\nsubmit")
	if !strings.Contains(out, "echo: Bye") {
		t.Fatalf("in-flight submission not awaited:\n%s", out)
	}
}

func TestFormatField(t *testing.T) {
	p := session.DefaultParams(types.Catalog{Models: []types.Model{{ID: "m"}}})
	if got := formatField(p, session.FieldSourceText); got != "(empty)" {
		t.Fatalf("got %q", got)
	}
	if got := formatField(p, session.FieldTargetModules); got != "query,key,value" {
		t.Fatalf("got %q", got)
	}
	if got := shortID("0123456789"); got != "01234567" {
		t.Fatalf("got %q", got)
	}
}
