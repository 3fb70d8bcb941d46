package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ai4l/internal/session"
)

func newREPLCmd(a *app) *cobra.Command {
	var f clientFlags
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Edit generation parameters interactively and submit them",
		Long: `repl keeps one generation session. Parameters can be edited while a
submission is in flight; the request already sent is not affected.
Type "help" for commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := newController(cmd.Context(), a, cmd, &f)
			if err != nil {
				return err
			}
			return newREPL(ctl, cmd.OutOrStdout()).run(cmd.Context(), cmd.InOrStdin())
		},
	}
	f.register(cmd)
	return cmd
}

var (
	promptColor = color.New(color.FgCyan, color.Bold)
	okColor     = color.New(color.FgGreen)
	errColor    = color.New(color.FgRed)
	dimColor    = color.New(color.Faint)
	labelColor  = color.New(color.FgYellow)
)

const replHelp = `commands:
  show                     current parameters, phase, output and last error
  set <field> <value>      edit a field (numbers are clamped to their range)
  text <line>              set the sample text to one line
  text                     set a multi-line sample text, end with a single "."
  payload                  the request a submit would send now
  submit                   send the request in the background
  wait                     wait for the submission in flight
  models                   list models and target modules
  reset                    restore default parameters (text is kept)
  help                     this text
  quit                     wait for the submission in flight and exit
fields: `

type repl struct {
	ctl *session.Controller

	mu  sync.Mutex // serialises writes to out
	out io.Writer
	wg  sync.WaitGroup
}

func newREPL(ctl *session.Controller, out io.Writer) *repl {
	return &repl{ctl: ctl, out: out}
}

func (r *repl) printf(c *color.Color, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c == nil {
		fmt.Fprintf(r.out, format, args...)
		return
	}
	c.Fprintf(r.out, format, args...)
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	defer r.wg.Wait()
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	r.printf(dimColor, "ai4l session, type \"help\" for commands\n")
	for {
		r.printf(promptColor, "ai4l> ")
		if !sc.Scan() {
			r.printf(nil, "\n")
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		switch strings.ToLower(cmd) {
		case "quit", "exit", "q":
			return nil
		case "help", "?":
			r.printf(nil, "%s%s\n", replHelp, fieldList())
		case "show":
			r.show()
		case "set":
			field, value, _ := strings.Cut(rest, " ")
			if field == "" {
				r.printf(errColor, "usage: set <field> <value>\n")
				continue
			}
			r.set(field, strings.TrimSpace(value))
		case "text":
			if rest == "" {
				rest = r.readBlock(sc)
			}
			r.set(string(session.FieldSourceText), rest)
		case "payload":
			r.payload()
		case "submit", "generate":
			r.submit(ctx)
		case "wait":
			r.wg.Wait()
		case "models":
			r.models()
		case "reset":
			r.ctl.ResetParams()
			r.printf(okColor, "parameters reset\n")
		default:
			r.printf(errColor, "unknown command %q, type \"help\"\n", cmd)
		}
	}
}

// readBlock reads lines up to a line holding a single ".".
func (r *repl) readBlock(sc *bufio.Scanner) string {
	r.printf(dimColor, "enter text, end with a line containing only \".\"\n")
	var lines []string
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "." {
			break
		}
		lines = append(lines, sc.Text())
	}
	return strings.Join(lines, "\n")
}

func (r *repl) set(field, value string) {
	if err := r.ctl.SetField(field, value); err != nil {
		r.printf(errColor, "%v\n", err)
		return
	}
	f, _ := session.ParseField(field)
	r.printf(okColor, "%s = %s\n", f, formatField(r.ctl.State().Params, f))
}

func (r *repl) show() {
	v := r.ctl.State()
	for _, f := range session.Fields() {
		r.printf(labelColor, "%-15s", f)
		r.printf(nil, " %s\n", formatField(v.Params, f))
	}
	r.printf(labelColor, "%-15s", "phase")
	r.printf(nil, " %s\n", v.Phase)
	r.printf(labelColor, "%-15s", "can_submit")
	r.printf(nil, " %t\n", v.CanSubmit)
	if v.LastError != nil {
		r.printf(labelColor, "%-15s", "last_error")
		r.printf(errColor, " %s\n", v.LastError)
	}
	if v.OutputText != "" {
		r.printf(labelColor, "%-15s", "output")
		r.printf(nil, "\n%s\n", v.OutputText)
	}
}

func (r *repl) payload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = writeJSON(r.out, r.ctl.Payload())
}

func (r *repl) submit(ctx context.Context) {
	done, err := r.ctl.Start(ctx)
	if err != nil {
		r.printf(errColor, "%v\n", err)
		return
	}
	r.printf(dimColor, "submitting...\n")
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		o := <-done
		if o.Err != nil {
			r.printf(errColor, "\n[%s] generation failed: %s\n", shortID(o.ID), o.Err)
			return
		}
		r.printf(okColor, "\n[%s] generated in %s\n", shortID(o.ID), o.Duration.Round(time.Millisecond))
		r.printf(nil, "%s\n", o.Output)
	}()
}

func (r *repl) models() {
	cat := r.ctl.Catalog()
	r.printf(labelColor, "models:\n")
	for _, m := range cat.Models {
		r.printf(nil, "  %s\n", m.ID)
	}
	r.printf(labelColor, "target modules:\n")
	for _, t := range cat.TargetModules {
		r.printf(nil, "  %s\n", t.ID)
	}
}

func formatField(p session.Params, f session.Field) string {
	switch f {
	case session.FieldSourceText:
		if p.SourceText == "" {
			return "(empty)"
		}
		return fmt.Sprintf("%q", p.SourceText)
	case session.FieldTemperature:
		return fmt.Sprintf("%.2f", p.Temperature)
	case session.FieldMaxTokens:
		return fmt.Sprint(p.MaxTokens)
	case session.FieldTopP:
		return fmt.Sprintf("%.2f", p.TopP)
	case session.FieldModel:
		return p.Model
	case session.FieldLoraRank:
		return fmt.Sprint(p.LoraRank)
	case session.FieldLoraAlpha:
		return fmt.Sprint(p.LoraAlpha)
	case session.FieldLoraDropout:
		return fmt.Sprintf("%.2f", p.LoraDropout)
	case session.FieldTargetModules:
		return strings.Join(p.TargetModules, ",")
	}
	return ""
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
