package generator

import (
	"fmt"
	"strconv"
	"strings"

	"ai4l/pkg/types"
)

// applyDefaults fills fields a client omitted. Zero temperature, max_tokens,
// lora_r and lora_alpha are outside their domains and read as "unset";
// lora_dropout 0 is a valid value and is kept. A missing target_modules list
// selects the default modules, an explicit empty list is kept.
func (s *Service) applyDefaults(req types.GenerateRequest) types.GenerateRequest {
	if req.Model == "" {
		req.Model = s.defaultModel
	}
	if req.Temperature == 0 {
		req.Temperature = types.DefaultTemperature
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = types.DefaultMaxTokens
	}
	if req.LoraR == 0 {
		req.LoraR = types.DefaultLoraRank
	}
	if req.LoraAlpha == 0 {
		req.LoraAlpha = types.DefaultLoraAlpha
	}
	if req.TargetModules == nil {
		req.TargetModules = types.DefaultTargetModules()
	}
	return req
}

// validate checks req against the parameter domains and the catalog. The
// service does not clamp: out-of-domain values are rejected.
func (s *Service) validate(req types.GenerateRequest) (types.Model, error) {
	if strings.TrimSpace(req.Text) == "" {
		return types.Model{}, ErrInvalidParams("text is required")
	}
	if err := checkFloat("temperature", req.Temperature, types.TemperatureRange); err != nil {
		return types.Model{}, err
	}
	if err := checkInt("max_tokens", req.MaxTokens, types.MaxTokensRange); err != nil {
		return types.Model{}, err
	}
	if req.TopP != nil {
		if err := checkFloat("top_p", *req.TopP, types.TopPRange); err != nil {
			return types.Model{}, err
		}
	}
	if err := checkInt("lora_r", req.LoraR, types.LoraRankRange); err != nil {
		return types.Model{}, err
	}
	if err := checkInt("lora_alpha", req.LoraAlpha, types.LoraAlphaRange); err != nil {
		return types.Model{}, err
	}
	if err := checkFloat("lora_dropout", req.LoraDropout, types.LoraDropoutRange); err != nil {
		return types.Model{}, err
	}
	for _, tm := range req.TargetModules {
		if !s.catalog.HasTargetModule(tm) {
			return types.Model{}, ErrInvalidParams("unknown target module: " + strconv.Quote(tm))
		}
	}
	m, ok := s.catalog.Model(req.Model)
	if !ok {
		return types.Model{}, ErrModelNotFound(req.Model)
	}
	return m, nil
}

func checkFloat(name string, v float64, r types.FloatRange) error {
	if !r.Contains(v) {
		return ErrInvalidParams(fmt.Sprintf("%s must be within [%g, %g], got %g", name, r.Min, r.Max, v))
	}
	return nil
}

func checkInt(name string, v int, r types.IntRange) error {
	if !r.Contains(v) {
		return ErrInvalidParams(fmt.Sprintf("%s must be within [%d, %d], got %d", name, r.Min, r.Max, v))
	}
	return nil
}
