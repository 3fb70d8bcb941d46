package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ai4l/internal/config"
	"ai4l/internal/generator"
	"ai4l/internal/httpapi"
	"ai4l/internal/registry"
	"ai4l/pkg/types"
)

type serveFlags struct {
	addr            string
	modelsDir       string
	defaultModel    string
	engine          string
	maxQueueDepth   int
	maxWaitMs       int
	generateTimeout int64
	maxBodyBytes    int64
	cors            bool
	corsOrigins     string
	llamaCtx        int
	llamaThreads    int
	loraAdapter     string
	loraBase        string
}

func newServeCmd(a *app) *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation API",
		Long: `Serve POST /api/generate together with GET /, /api/models, /api/status,
/healthz, /readyz and /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := f.overlay(cmd, a.cfg.Server)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, a, cfg, nil)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.addr, "addr", "", "HTTP listen address, e.g. :8080 (defaults AI4L_ADDR or :8080)")
	fl.StringVar(&f.modelsDir, "models-dir", "", "directory to scan for *.gguf model files, added to the built-in catalog")
	fl.StringVar(&f.defaultModel, "default-model", "", "model used when a request omits model (defaults to the first catalog entry)")
	fl.StringVar(&f.engine, "engine", "", "generation engine: echo|llama")
	fl.IntVar(&f.maxQueueDepth, "max-queue-depth", 0, "requests allowed to wait per model before 429")
	fl.IntVar(&f.maxWaitMs, "max-wait-ms", 0, "how long a queued request may wait for its model, in milliseconds")
	fl.Int64Var(&f.generateTimeout, "generate-timeout", 0, "per-request generation timeout in seconds (0 disables)")
	fl.Int64Var(&f.maxBodyBytes, "max-body-bytes", 0, "maximum request body size")
	fl.BoolVar(&f.cors, "cors", false, "enable CORS for browser clients")
	fl.StringVar(&f.corsOrigins, "cors-origins", "", "comma-separated allowed origins (default *)")
	fl.IntVar(&f.llamaCtx, "llama-ctx", 0, "llama.cpp context size")
	fl.IntVar(&f.llamaThreads, "llama-threads", 0, "llama.cpp prediction threads")
	fl.StringVar(&f.loraAdapter, "lora-adapter", "", "LoRA adapter applied by the llama engine")
	fl.StringVar(&f.loraBase, "lora-base", "", "base model for the LoRA adapter")
	return cmd
}

// overlay applies the flags the user actually set on top of base.
func (f serveFlags) overlay(cmd *cobra.Command, base config.ServerConfig) config.ServerConfig {
	set := cmd.Flags().Changed
	if set("addr") {
		base.Addr = f.addr
	}
	if set("models-dir") {
		base.ModelsDir = f.modelsDir
	}
	if set("default-model") {
		base.DefaultModel = f.defaultModel
	}
	if set("engine") {
		base.Engine = f.engine
	}
	if set("max-queue-depth") {
		base.MaxQueueDepth = f.maxQueueDepth
	}
	if set("max-wait-ms") {
		base.MaxWaitMs = f.maxWaitMs
	}
	if set("generate-timeout") {
		base.GenerateTimeoutSeconds = f.generateTimeout
	}
	if set("max-body-bytes") {
		base.MaxBodyBytes = f.maxBodyBytes
	}
	if set("cors") {
		base.CORSEnabled = f.cors
	}
	if set("cors-origins") {
		base.CORSAllowedOrigins = splitCSV(f.corsOrigins)
	}
	if set("llama-ctx") {
		base.LlamaCtx = f.llamaCtx
	}
	if set("llama-threads") {
		base.LlamaThreads = f.llamaThreads
	}
	if set("lora-adapter") {
		base.LoraAdapter = f.loraAdapter
	}
	if set("lora-base") {
		base.LoraBase = f.loraBase
	}
	return base
}

// buildCatalog returns the built-in catalog extended with models found in dir.
func buildCatalog(dir string) (types.Catalog, error) {
	cat := registry.Builtin()
	if dir == "" {
		return cat, nil
	}
	found, err := registry.LoadDir(dir)
	if err != nil {
		return cat, fmt.Errorf("load models: %w", err)
	}
	return registry.Merge(cat, found), nil
}

// runServe serves until ctx is done. When ready is non-nil it receives the
// bound address once the listener is up.
func runServe(ctx context.Context, a *app, cfg config.ServerConfig, ready chan<- string) error {
	cat, err := buildCatalog(cfg.ModelsDir)
	if err != nil {
		return err
	}
	svc, err := generator.NewWithConfig(generator.Config{
		Catalog:       cat,
		DefaultModel:  cfg.DefaultModel,
		MaxQueueDepth: cfg.MaxQueueDepth,
		MaxWait:       time.Duration(cfg.MaxWaitMs) * time.Millisecond,
		Engine:        cfg.Engine,
		LlamaCtx:      cfg.LlamaCtx,
		LlamaThreads:  cfg.LlamaThreads,
		LoraAdapter:   cfg.LoraAdapter,
		LoraBase:      cfg.LoraBase,
		Logger:        &a.log,
	})
	if err != nil {
		return fmt.Errorf("init generator: %w", err)
	}
	defer svc.Close()

	httpapi.SetLogger(a.log)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetGenerateTimeoutSeconds(cfg.GenerateTimeoutSeconds)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSAllowedOrigins, nil, nil)
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	srv := &http.Server{
		Handler:           httpapi.NewMux(svc),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", ln.Addr().String()).Str("engine", svc.EngineName()).Int("models", len(cat.Models)).Msg("ai4l listening")
		errCh <- srv.Serve(ln)
	}()
	if ready != nil {
		ready <- ln.Addr().String()
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	timeout := time.Duration(cfg.ShutdownTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		// Cancel in-flight generations that outlived the grace period.
		cancelBase()
		a.log.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	return nil
}
