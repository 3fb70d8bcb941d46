package session

import (
	"math"
	"strconv"
	"strings"

	"ai4l/pkg/types"
)

// Numeric writes are clamped to the nearest bound of their domain. Values
// that cannot be placed in a domain at all (NaN, unparseable text) are
// rejected and the stored value is kept. Enumerated fields reject unknown
// members. Writes are accepted in every phase.

// SetSourceText stores the sample text verbatim; trimming happens when the
// payload is built.
func (c *Controller) SetSourceText(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.SourceText = s
}

// SetTemperature stores v clamped to [0.1, 1.0].
func (c *Controller) SetTemperature(v float64) error {
	return c.setFloat(FieldTemperature, &c.params.Temperature, types.TemperatureRange, v)
}

// SetTopP stores v clamped to [0.1, 1.0].
func (c *Controller) SetTopP(v float64) error {
	return c.setFloat(FieldTopP, &c.params.TopP, types.TopPRange, v)
}

// SetLoraDropout stores v clamped to [0.0, 0.5].
func (c *Controller) SetLoraDropout(v float64) error {
	return c.setFloat(FieldLoraDropout, &c.params.LoraDropout, types.LoraDropoutRange, v)
}

// SetMaxTokens stores n clamped to [50, 1000].
func (c *Controller) SetMaxTokens(n int) {
	c.setInt(FieldMaxTokens, &c.params.MaxTokens, types.MaxTokensRange, n)
}

// SetLoraRank stores n clamped to [1, 64].
func (c *Controller) SetLoraRank(n int) {
	c.setInt(FieldLoraRank, &c.params.LoraRank, types.LoraRankRange, n)
}

// SetLoraAlpha stores n clamped to [1, 128].
func (c *Controller) SetLoraAlpha(n int) {
	c.setInt(FieldLoraAlpha, &c.params.LoraAlpha, types.LoraAlphaRange, n)
}

// SetModel selects a catalog model. Unknown ids are rejected.
func (c *Controller) SetModel(id string) error {
	m, ok := c.catalog.Model(strings.TrimSpace(id))
	if !ok {
		return &ValidationError{Field: FieldModel, Reason: "unknown model " + strconv.Quote(id)}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.Model = m.ID
	return nil
}

// SetTargetModules replaces the selection. Blank entries are ignored and
// duplicates keep their first position. If any name is not enumerated the
// whole write is rejected.
func (c *Controller) SetTargetModules(names []string) error {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if !c.catalog.HasTargetModule(n) {
			return &ValidationError{Field: FieldTargetModules, Reason: "unknown module " + strconv.Quote(n)}
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.TargetModules = out
	return nil
}

// SetField writes a field from its textual form, as typed in a CLI or form.
// Target modules are comma separated.
func (c *Controller) SetField(name, raw string) error {
	f, err := ParseField(name)
	if err != nil {
		return err
	}
	switch f {
	case FieldSourceText:
		c.SetSourceText(raw)
		return nil
	case FieldModel:
		return c.SetModel(raw)
	case FieldTargetModules:
		return c.SetTargetModules(strings.Split(raw, ","))
	case FieldTemperature, FieldTopP, FieldLoraDropout:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return &ValidationError{Field: f, Reason: "not a number: " + strconv.Quote(raw)}
		}
		switch f {
		case FieldTemperature:
			return c.SetTemperature(v)
		case FieldTopP:
			return c.SetTopP(v)
		default:
			return c.SetLoraDropout(v)
		}
	default:
		n, err := parseInt(f, raw)
		if err != nil {
			return err
		}
		switch f {
		case FieldMaxTokens:
			c.SetMaxTokens(n)
		case FieldLoraRank:
			c.SetLoraRank(n)
		default:
			c.SetLoraAlpha(n)
		}
		return nil
	}
}

func (c *Controller) setFloat(f Field, dst *float64, r types.FloatRange, v float64) error {
	if math.IsNaN(v) {
		return &ValidationError{Field: f, Reason: "not a number"}
	}
	stored := r.Clamp(v)
	c.mu.Lock()
	*dst = stored
	c.mu.Unlock()
	if stored != v {
		c.log.Debug().Str("field", string(f)).Float64("value", v).Float64("stored", stored).Msg("clamped")
	}
	return nil
}

func (c *Controller) setInt(f Field, dst *int, r types.IntRange, n int) {
	stored := r.Clamp(n)
	c.mu.Lock()
	*dst = stored
	c.mu.Unlock()
	if stored != n {
		c.log.Debug().Str("field", string(f)).Int("value", n).Int("stored", stored).Msg("clamped")
	}
}

// parseInt accepts integers and integral decimals ("12", "12.0", "1e3").
// Magnitudes beyond int are saturated so clamping still applies.
func parseInt(f Field, raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || v != math.Trunc(v) {
		return 0, &ValidationError{Field: f, Reason: "not an integer: " + strconv.Quote(raw)}
	}
	if v > math.MaxInt32 {
		return math.MaxInt32, nil
	}
	if v < math.MinInt32 {
		return math.MinInt32, nil
	}
	return int(v), nil
}
