package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ai4l/internal/session"
	"ai4l/pkg/types"
)

type generateFlags struct {
	clientFlags
	text   string
	file   string
	sets   []string
	asJSON bool
	dryRun bool
}

// paramFlags maps convenience flags onto session fields.
var paramFlags = []struct {
	name  string
	field session.Field
	usage string
}{
	{"model", session.FieldModel, "model id (see `ai4l models`)"},
	{"temperature", session.FieldTemperature, "sampling temperature, clamped to 0.1..1.0"},
	{"max-tokens", session.FieldMaxTokens, "maximum new tokens, clamped to 50..1000"},
	{"top-p", session.FieldTopP, "nucleus sampling, clamped to 0.1..1.0 (sent only with --send-top-p)"},
	{"lora-r", session.FieldLoraRank, "LoRA rank, clamped to 1..64"},
	{"lora-alpha", session.FieldLoraAlpha, "LoRA alpha, clamped to 1..128"},
	{"lora-dropout", session.FieldLoraDropout, "LoRA dropout, clamped to 0.0..0.5"},
	{"modules", session.FieldTargetModules, "comma-separated target modules"},
}

func newGenerateCmd(a *app) *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate [text]",
		Short: "Submit one generation request and print the result",
		Example: `  ai4l generate "It was a bright cold day in April" --temperature 0.9
  ai4l generate --file sample.txt --model llama-7b --modules query,value
  echo "Hello" | ai4l generate --file - --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := newController(cmd.Context(), a, cmd, &f.clientFlags)
			if err != nil {
				return err
			}
			text, err := f.sourceText(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			ctl.SetSourceText(text)
			if err := f.apply(cmd, ctl); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if f.dryRun {
				return writeJSON(out, ctl.Payload())
			}
			outcome, err := ctl.Submit(cmd.Context())
			if err != nil {
				return err
			}
			if f.asJSON {
				if err := writeJSON(out, outcomeJSON(outcome)); err != nil {
					return err
				}
			} else if outcome.Err == nil {
				fmt.Fprintln(out, outcome.Output)
			}
			if outcome.Err != nil {
				return errors.New(outcome.Err.String())
			}
			return nil
		},
	}
	f.register(cmd)
	fl := cmd.Flags()
	fl.StringVar(&f.text, "text", "", "sample text whose style is imitated")
	fl.StringVarP(&f.file, "file", "f", "", "read the sample text from a file, - for stdin")
	fl.StringArrayVar(&f.sets, "set", nil, "field=value, repeatable (fields: "+fieldList()+")")
	for _, p := range paramFlags {
		fl.String(p.name, "", p.usage)
	}
	fl.BoolVar(&f.asJSON, "json", false, "print the outcome as JSON")
	fl.BoolVar(&f.dryRun, "dry-run", false, "print the payload that would be sent and exit")
	return cmd
}

func (f *generateFlags) sourceText(args []string, stdin io.Reader) (string, error) {
	n := 0
	for _, set := range []bool{len(args) > 0, f.text != "", f.file != ""} {
		if set {
			n++
		}
	}
	if n > 1 {
		return "", errors.New("give the sample text once: as argument, --text or --file")
	}
	switch {
	case len(args) > 0:
		return args[0], nil
	case f.file == "-":
		b, err := io.ReadAll(stdin)
		return string(b), err
	case f.file != "":
		b, err := os.ReadFile(f.file)
		return string(b), err
	}
	return f.text, nil
}

// apply writes the convenience flags, then every --set in order.
func (f *generateFlags) apply(cmd *cobra.Command, ctl *session.Controller) error {
	for _, p := range paramFlags {
		if !cmd.Flags().Changed(p.name) {
			continue
		}
		v, _ := cmd.Flags().GetString(p.name)
		if err := ctl.SetField(string(p.field), v); err != nil {
			return err
		}
	}
	for _, kv := range f.sets {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("--set %q: want field=value", kv)
		}
		if err := ctl.SetField(k, v); err != nil {
			return err
		}
	}
	return nil
}

type outcomeView struct {
	SubmissionID string                `json:"submission_id"`
	Phase        string                `json:"phase"`
	Output       string                `json:"generated_text,omitempty"`
	Error        *errorView            `json:"error,omitempty"`
	DurationMs   int64                 `json:"duration_ms"`
	Request      types.GenerateRequest `json:"request"`
}

type errorView struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
}

func outcomeJSON(o session.Outcome) outcomeView {
	v := outcomeView{
		SubmissionID: o.ID,
		Phase:        o.Phase.String(),
		Output:       o.Output,
		DurationMs:   o.Duration.Milliseconds(),
		Request:      o.Request,
	}
	if o.Err != nil {
		v.Error = &errorView{Kind: string(o.Err.Kind), Message: o.Err.Message, StatusCode: o.Err.StatusCode}
	}
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fieldList() string {
	names := make([]string, 0, len(session.Fields()))
	for _, f := range session.Fields() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}
