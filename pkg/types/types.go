package types

import "math"

// FloatRange is a closed interval for a real-valued parameter.
type FloatRange struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the range. NaN is never contained.
func (r FloatRange) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Clamp returns v limited to the range. NaN is returned unchanged.
func (r FloatRange) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Min(math.Max(v, r.Min), r.Max)
}

// IntRange is a closed interval for an integer parameter.
type IntRange struct {
	Min int
	Max int
}

// Contains reports whether v lies within the range.
func (r IntRange) Contains(v int) bool { return v >= r.Min && v <= r.Max }

// Clamp returns v limited to the range.
func (r IntRange) Clamp(v int) int {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Parameter domains shared by clients and the generation service.
var (
	TemperatureRange = FloatRange{Min: 0.1, Max: 1.0}
	MaxTokensRange   = IntRange{Min: 50, Max: 1000}
	TopPRange        = FloatRange{Min: 0.1, Max: 1.0}
	LoraRankRange    = IntRange{Min: 1, Max: 64}
	LoraAlphaRange   = IntRange{Min: 1, Max: 128}
	LoraDropoutRange = FloatRange{Min: 0.0, Max: 0.5}
)

// Parameter defaults.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 350
	DefaultTopP        = 0.9
	DefaultLoraRank    = 12
	DefaultLoraAlpha   = 16
	DefaultLoraDropout = 0.1
)

// DefaultTargetModules returns the target modules selected in a new session.
func DefaultTargetModules() []string { return []string{"query", "key", "value"} }
