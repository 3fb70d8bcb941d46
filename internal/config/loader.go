package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"ai4l/internal/common/fsutil"
)

// Config holds runtime parameters for both the generation service and the
// client. Zero values mean "unspecified" and are replaced by Defaults.
type Config struct {
	Server ServerConfig `json:"server" yaml:"server" toml:"server"`
	Client ClientConfig `json:"client" yaml:"client" toml:"client"`
	Log    LogConfig    `json:"log" yaml:"log" toml:"log"`
}

// ServerConfig configures `ai4l serve`.
type ServerConfig struct {
	Addr                   string   `json:"addr" yaml:"addr" toml:"addr"`
	ModelsDir              string   `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	DefaultModel           string   `json:"default_model" yaml:"default_model" toml:"default_model"`
	Engine                 string   `json:"engine" yaml:"engine" toml:"engine"`
	MaxQueueDepth          int      `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth"`
	MaxWaitMs              int      `json:"max_wait_ms" yaml:"max_wait_ms" toml:"max_wait_ms"`
	GenerateTimeoutSeconds int64    `json:"generate_timeout_seconds" yaml:"generate_timeout_seconds" toml:"generate_timeout_seconds"`
	MaxBodyBytes           int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	ShutdownTimeoutSeconds int      `json:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds" toml:"shutdown_timeout_seconds"`
	CORSEnabled            bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSAllowedOrigins     []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`
	LlamaCtx               int      `json:"llama_ctx" yaml:"llama_ctx" toml:"llama_ctx"`
	LlamaThreads           int      `json:"llama_threads" yaml:"llama_threads" toml:"llama_threads"`
	LoraAdapter            string   `json:"lora_adapter" yaml:"lora_adapter" toml:"lora_adapter"`
	LoraBase               string   `json:"lora_base" yaml:"lora_base" toml:"lora_base"`
}

// ClientConfig configures the commands that talk to a generation service.
type ClientConfig struct {
	Endpoint       string `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
	SendTopP       bool   `json:"send_top_p" yaml:"send_top_p" toml:"send_top_p"`
}

// LogConfig configures the global zerolog logger.
type LogConfig struct {
	Level    string `json:"level" yaml:"level" toml:"level"`
	Format   string `json:"format" yaml:"format" toml:"format"`
	FilePath string `json:"file_path" yaml:"file_path" toml:"file_path"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:                   ":8080",
			ModelsDir:              "",
			Engine:                 "echo",
			MaxQueueDepth:          32,
			MaxWaitMs:              30000,
			MaxBodyBytes:           1 << 20,
			ShutdownTimeoutSeconds: 5,
		},
		Client: ClientConfig{
			Endpoint:       "http://localhost:8080/api/generate",
			TimeoutSeconds: 60,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Merge overlays the non-zero fields of o onto c and returns the result.
// Booleans can only be switched on by an overlay.
func (c Config) Merge(o Config) Config {
	s, so := &c.Server, o.Server
	setStr(&s.Addr, so.Addr)
	setStr(&s.ModelsDir, so.ModelsDir)
	setStr(&s.DefaultModel, so.DefaultModel)
	setStr(&s.Engine, so.Engine)
	setInt(&s.MaxQueueDepth, so.MaxQueueDepth)
	setInt(&s.MaxWaitMs, so.MaxWaitMs)
	setInt64(&s.GenerateTimeoutSeconds, so.GenerateTimeoutSeconds)
	setInt64(&s.MaxBodyBytes, so.MaxBodyBytes)
	setInt(&s.ShutdownTimeoutSeconds, so.ShutdownTimeoutSeconds)
	s.CORSEnabled = s.CORSEnabled || so.CORSEnabled
	if len(so.CORSAllowedOrigins) > 0 {
		s.CORSAllowedOrigins = append([]string(nil), so.CORSAllowedOrigins...)
	}
	setInt(&s.LlamaCtx, so.LlamaCtx)
	setInt(&s.LlamaThreads, so.LlamaThreads)
	setStr(&s.LoraAdapter, so.LoraAdapter)
	setStr(&s.LoraBase, so.LoraBase)

	cl, oc := &c.Client, o.Client
	setStr(&cl.Endpoint, oc.Endpoint)
	setInt(&cl.TimeoutSeconds, oc.TimeoutSeconds)
	cl.SendTopP = cl.SendTopP || oc.SendTopP

	setStr(&c.Log.Level, o.Log.Level)
	setStr(&c.Log.Format, o.Log.Format)
	setStr(&c.Log.FilePath, o.Log.FilePath)
	return c
}

func setStr(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setInt64(dst *int64, v int64) {
	if v != 0 {
		*dst = v
	}
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	if c.Server.MaxQueueDepth < 0 {
		return fmt.Errorf("server.max_queue_depth must be >= 0, got %d", c.Server.MaxQueueDepth)
	}
	if c.Server.MaxWaitMs < 0 {
		return fmt.Errorf("server.max_wait_ms must be >= 0, got %d", c.Server.MaxWaitMs)
	}
	if c.Server.GenerateTimeoutSeconds < 0 {
		return fmt.Errorf("server.generate_timeout_seconds must be >= 0, got %d", c.Server.GenerateTimeoutSeconds)
	}
	if c.Client.TimeoutSeconds < 0 {
		return fmt.Errorf("client.timeout_seconds must be >= 0, got %d", c.Client.TimeoutSeconds)
	}
	if c.Server.LoraAdapter != "" && !fsutil.PathExists(c.Server.LoraAdapter) {
		return fmt.Errorf("server.lora_adapter not found: %s", c.Server.LoraAdapter)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml. Path-valued fields are resolved
// relative to the working directory and may start with '~'.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	for _, p := range []*string{&cfg.Server.ModelsDir, &cfg.Server.LoraAdapter, &cfg.Server.LoraBase, &cfg.Log.FilePath} {
		if *p, err = fsutil.ResolvePath(*p); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}
