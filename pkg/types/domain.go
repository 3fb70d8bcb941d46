package types

import "strings"

// Model is a generation model the service can run.
type Model struct {
	// Stable identifier for the model.
	// example: mistral-7b v0.1
	ID string `json:"id" example:"mistral-7b v0.1"`
	// Human-friendly name.
	// example: Mistral 7B v0.1
	Name string `json:"name" example:"Mistral 7B v0.1"`
	// Path to a local *.gguf file, set for discovered models only.
	// example: /home/user/models/mistral-7b.Q4_K_M.gguf
	Path string `json:"path,omitempty" example:"/home/user/models/mistral-7b.Q4_K_M.gguf"`
	// Optional family (e.g., llama, mistral).
	// example: mistral
	Family string `json:"family,omitempty" example:"mistral"`
}

// TargetModule is a model component eligible for LoRA adaptation.
type TargetModule struct {
	// example: gate_proj
	ID string `json:"id" example:"gate_proj"`
	// example: Gate Proj
	Name string `json:"name" example:"Gate Proj"`
}

// Catalog enumerates the models and target modules a request may reference.
// It is returned by GET /api/models.
type Catalog struct {
	Models        []Model        `json:"models"`
	TargetModules []TargetModule `json:"target_modules"`
}

// Model looks up a model by id. Matching is exact first, then case-insensitive.
func (c Catalog) Model(id string) (Model, bool) {
	for _, m := range c.Models {
		if m.ID == id {
			return m, true
		}
	}
	for _, m := range c.Models {
		if strings.EqualFold(m.ID, id) {
			return m, true
		}
	}
	return Model{}, false
}

// DefaultModel returns the first catalog entry, or "" when the catalog is empty.
func (c Catalog) DefaultModel() string {
	if len(c.Models) == 0 {
		return ""
	}
	return c.Models[0].ID
}

// HasTargetModule reports whether name is an enumerated target module.
func (c Catalog) HasTargetModule(name string) bool {
	for _, tm := range c.TargetModules {
		if tm.ID == name {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with c.
func (c Catalog) Clone() Catalog {
	return Catalog{
		Models:        append([]Model(nil), c.Models...),
		TargetModules: append([]TargetModule(nil), c.TargetModules...),
	}
}
