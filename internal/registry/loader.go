package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ai4l/internal/common/fsutil"
	"ai4l/pkg/types"
)

// Builtin returns the catalog offered by the generation form. The first model
// is the session default.
func Builtin() types.Catalog {
	return types.Catalog{
		Models: []types.Model{
			{ID: "mistral-7b v0.1", Name: "Mistral 7B v0.1", Family: "mistral"},
			{ID: "llama-7b", Name: "LLaMA 7B", Family: "llama"},
			{ID: "Camembert-base", Name: "Camembert-base", Family: "camembert"},
			{ID: "claude-3", Name: "Claude-3", Family: "claude"},
		},
		TargetModules: []types.TargetModule{
			{ID: "query", Name: "Query"},
			{ID: "key", Name: "Key"},
			{ID: "value", Name: "Value"},
			{ID: "gate_proj", Name: "Gate Proj"},
			{ID: "up_proj", Name: "Up Proj"},
			{ID: "down_proj", Name: "Down Proj"},
		},
	}
}

// GGUFScanner discovers *.gguf model files in a directory.
type GGUFScanner struct{}

// NewGGUFScanner returns a scanner for *.gguf files.
func NewGGUFScanner() GGUFScanner { return GGUFScanner{} }

// Scan lists *.gguf files (case-insensitive) directly under dir. The model ID
// is the full filename; Path is absolute. Results are sorted by ID.
func (GGUFScanner) Scan(dir string) ([]types.Model, error) {
	abs, err := fsutil.ResolvePath(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.EqualFold(filepath.Ext(name), ".gguf") {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		models = append(models, types.Model{
			ID:     name,
			Name:   stem,
			Path:   filepath.Join(abs, name),
			Family: familyOf(stem),
		})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

// LoadDir scans dir with the default GGUF scanner.
func LoadDir(dir string) ([]types.Model, error) {
	return NewGGUFScanner().Scan(dir)
}

// Merge appends extra models to the catalog, skipping ids already present.
func Merge(c types.Catalog, extra []types.Model) types.Catalog {
	out := c.Clone()
	seen := make(map[string]struct{}, len(out.Models))
	for _, m := range out.Models {
		seen[m.ID] = struct{}{}
	}
	for _, m := range extra {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out.Models = append(out.Models, m)
	}
	return out
}

// familyOf guesses the family from the leading filename token, e.g.
// "mistral-7b.Q4_K_M" -> "mistral".
func familyOf(stem string) string {
	s := strings.ToLower(stem)
	if i := strings.IndexAny(s, "-_."); i > 0 {
		s = s[:i]
	}
	return s
}
