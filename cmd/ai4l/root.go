package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ai4l/internal/config"
	"ai4l/internal/logger"
)

// app carries state shared by subcommands once the root pre-run has
// resolved configuration.
type app struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string

	cfg    config.Config
	log    zerolog.Logger
	closer io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}
	root := &cobra.Command{
		Use:   "ai4l",
		Short: "Generate text in the style of a sample",
		Long: `ai4l edits generation parameters in a session, submits them to a
generation service and shows the result. It also serves the generation API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.closer != nil {
				_ = a.closer.Close()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "config file (.yaml, .yml, .json or .toml)")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading AI4L_* variables")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: trace|debug|info|warn|error (defaults AI4L_LOG_LEVEL or info)")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: console|json (defaults AI4L_LOG_FORMAT or console)")

	root.AddCommand(
		newServeCmd(a),
		newGenerateCmd(a),
		newREPLCmd(a),
		newModelsCmd(a),
		newVersionCmd(),
	)
	return root
}

// init resolves configuration in increasing precedence: built-in defaults,
// config file, AI4L_* environment, then flags (applied by each subcommand).
func (a *app) init() error {
	if err := loadEnvFile(a.envFile); err != nil {
		return err
	}
	cfg := config.Defaults()
	if a.configPath != "" {
		fileCfg, err := config.Load(a.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = cfg.Merge(fileCfg)
	}
	cfg = cfg.Merge(envConfig())
	cfg = cfg.Merge(config.Config{Log: config.LogConfig{Level: a.logLevel, Format: a.logFormat}})
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	l, closer, err := logger.Init(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg, a.log, a.closer = cfg, l, closer
	a.log.Debug().Str("config_file", a.configPath).Msg("configuration loaded")
	return nil
}

// loadEnvFile loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
