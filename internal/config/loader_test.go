package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", `
server:
  addr: ":9999"
  models_dir: /tmp
  default_model: llama-7b
  max_queue_depth: 4
  cors_enabled: true
  cors_allowed_origins: ["http://localhost:3000"]
client:
  endpoint: http://gen:8080/api/generate
  timeout_seconds: 15
  send_top_p: true
log:
  level: debug
  format: json
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9999" || cfg.Server.ModelsDir != "/tmp" || cfg.Server.DefaultModel != "llama-7b" || cfg.Server.MaxQueueDepth != 4 {
		t.Fatalf("unexpected server cfg: %+v", cfg.Server)
	}
	if !cfg.Server.CORSEnabled || len(cfg.Server.CORSAllowedOrigins) != 1 {
		t.Fatalf("unexpected cors cfg: %+v", cfg.Server)
	}
	if cfg.Client.Endpoint != "http://gen:8080/api/generate" || cfg.Client.TimeoutSeconds != 15 || !cfg.Client.SendTopP {
		t.Fatalf("unexpected client cfg: %+v", cfg.Client)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log cfg: %+v", cfg.Log)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"server":{"addr":":7070","engine":"llama","max_wait_ms":250},"client":{"timeout_seconds":5}}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":7070" || cfg.Server.Engine != "llama" || cfg.Server.MaxWaitMs != 250 || cfg.Client.TimeoutSeconds != 5 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "[server]\naddr=\":8081\"\ngenerate_timeout_seconds=30\n\n[client]\nendpoint=\"http://x/api/generate\"\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":8081" || cfg.Server.GenerateTimeoutSeconds != 30 || cfg.Client.Endpoint != "http://x/api/generate" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadResolvesPaths(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "server:\n  models_dir: rel/models\nlog:\n  file_path: logs/ai4l.log\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !filepath.IsAbs(cfg.Server.ModelsDir) || !strings.HasSuffix(cfg.Server.ModelsDir, filepath.Join("rel", "models")) {
		t.Fatalf("models_dir not resolved: %q", cfg.Server.ModelsDir)
	}
	if !filepath.IsAbs(cfg.Log.FilePath) {
		t.Fatalf("file_path not resolved: %q", cfg.Log.FilePath)
	}
	if cfg.Server.LoraAdapter != "" {
		t.Fatalf("empty path must stay empty, got %q", cfg.Server.LoraAdapter)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestDefaultsAndMerge(t *testing.T) {
	def := Defaults()
	if def.Server.Addr != ":8080" || def.Client.TimeoutSeconds != 60 || def.Client.SendTopP {
		t.Fatalf("unexpected defaults: %+v", def)
	}
	if def.Client.Endpoint != "http://localhost:8080/api/generate" {
		t.Fatalf("unexpected default endpoint %q", def.Client.Endpoint)
	}
	merged := def.Merge(Config{
		Server: ServerConfig{Addr: ":9000", CORSEnabled: true},
		Client: ClientConfig{TimeoutSeconds: 10},
		Log:    LogConfig{Level: "debug"},
	})
	if merged.Server.Addr != ":9000" || !merged.Server.CORSEnabled || merged.Server.MaxQueueDepth != 32 {
		t.Fatalf("unexpected merged server: %+v", merged.Server)
	}
	if merged.Client.TimeoutSeconds != 10 || merged.Client.Endpoint != def.Client.Endpoint {
		t.Fatalf("unexpected merged client: %+v", merged.Client)
	}
	if merged.Log.Level != "debug" || merged.Log.Format != "console" {
		t.Fatalf("unexpected merged log: %+v", merged.Log)
	}
	if def.Server.Addr != ":8080" {
		t.Fatalf("merge mutated receiver")
	}
}

func TestValidate(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	bad := Defaults()
	bad.Client.TimeoutSeconds = -1
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for negative timeout")
	}
	bad = Defaults()
	bad.Log.Format = "xml"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for unknown log format")
	}
	bad = Defaults()
	bad.Server.LoraAdapter = filepath.Join(t.TempDir(), "missing.bin")
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for missing lora adapter")
	}
}
