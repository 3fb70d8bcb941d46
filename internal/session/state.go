package session

import (
	"fmt"
	"strings"

	"ai4l/pkg/types"
)

// Phase is the submission lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Field names an editable parameter.
type Field string

const (
	FieldSourceText    Field = "source_text"
	FieldTemperature   Field = "temperature"
	FieldMaxTokens     Field = "max_tokens"
	FieldTopP          Field = "top_p"
	FieldModel         Field = "model"
	FieldLoraRank      Field = "lora_r"
	FieldLoraAlpha     Field = "lora_alpha"
	FieldLoraDropout   Field = "lora_dropout"
	FieldTargetModules Field = "target_modules"
)

// Fields lists every editable field in display order.
func Fields() []Field {
	return []Field{
		FieldSourceText, FieldModel, FieldTemperature, FieldMaxTokens, FieldTopP,
		FieldLoraRank, FieldLoraAlpha, FieldLoraDropout, FieldTargetModules,
	}
}

var fieldAliases = map[string]Field{
	"text":          FieldSourceText,
	"sourcetext":    FieldSourceText,
	"temp":          FieldTemperature,
	"maxtokens":     FieldMaxTokens,
	"topp":          FieldTopP,
	"lorarank":      FieldLoraRank,
	"rank":          FieldLoraRank,
	"r":             FieldLoraRank,
	"loraalpha":     FieldLoraAlpha,
	"alpha":         FieldLoraAlpha,
	"loradropout":   FieldLoraDropout,
	"dropout":       FieldLoraDropout,
	"targetmodules": FieldTargetModules,
	"modules":       FieldTargetModules,
}

// ParseField resolves a field name. Wire names (lora_r), camelCase names
// (loraRank) and short aliases (rank) are accepted.
func ParseField(name string) (Field, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, f := range Fields() {
		if n == string(f) {
			return f, nil
		}
	}
	if f, ok := fieldAliases[strings.ReplaceAll(n, "_", "")]; ok {
		return f, nil
	}
	return "", &ValidationError{Field: Field(name), Reason: "unknown field"}
}

// Params are the user-editable generation parameters.
type Params struct {
	SourceText    string
	Temperature   float64
	MaxTokens     int
	TopP          float64
	Model         string
	LoraRank      int
	LoraAlpha     int
	LoraDropout   float64
	TargetModules []string
}

// DefaultParams returns the parameters of a fresh session. The model is the
// first catalog entry.
func DefaultParams(cat types.Catalog) Params {
	return Params{
		Temperature:   types.DefaultTemperature,
		MaxTokens:     types.DefaultMaxTokens,
		TopP:          types.DefaultTopP,
		Model:         cat.DefaultModel(),
		LoraRank:      types.DefaultLoraRank,
		LoraAlpha:     types.DefaultLoraAlpha,
		LoraDropout:   types.DefaultLoraDropout,
		TargetModules: types.DefaultTargetModules(),
	}
}

func (p Params) clone() Params {
	p.TargetModules = append([]string(nil), p.TargetModules...)
	return p
}

// ErrorKind classifies a submission failure.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindTransport     ErrorKind = "transport"
	KindResponseShape ErrorKind = "response_shape"
)

// ErrorInfo describes the last failed submission.
type ErrorInfo struct {
	Kind    ErrorKind
	Message string
	// StatusCode is the HTTP status returned by the service, when there was one.
	StatusCode int
}

func (e ErrorInfo) String() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%s, HTTP %d)", e.Message, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
}

// View is a read-only projection of the session for presentation.
type View struct {
	Params
	Phase Phase
	// OutputText is the text of the most recent successful submission.
	OutputText string
	// LastError is set only while Phase is PhaseFailed.
	LastError *ErrorInfo
	// SubmissionID identifies the latest submission, "" before the first.
	SubmissionID string
	// Submissions counts submissions issued by this session.
	Submissions int
	CanSubmit   bool
}
