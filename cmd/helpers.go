package cmd

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ziadkadry99/pagenav/internal/config"
	"github.com/ziadkadry99/pagenav/internal/document"
	"github.com/ziadkadry99/pagenav/internal/library"
	"github.com/ziadkadry99/pagenav/internal/logging"
	"github.com/ziadkadry99/pagenav/internal/progress"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `pagenav init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the logger from config; --verbose forces debug level.
func newLogger(cfg *config.Config, stderrOnly bool) (*zap.Logger, error) {
	level := string(cfg.Log.Level)
	if verbose {
		level = string(config.LogDebug)
	}
	return logging.New(logging.Options{
		Level:      level,
		Format:     string(cfg.Log.Format),
		StderrOnly: stderrOnly,
	})
}

// loadLibrary renders every document under the configured docs dir.
// Documents that fail to load are logged and skipped; an empty library
// with errors is a failure.
func loadLibrary(ctx context.Context, cfg *config.Config, logger *zap.Logger, reporter progress.Reporter) (*library.Library, error) {
	lib, err := library.New(library.Options{
		Root:     cfg.DocsDir,
		Include:  cfg.Include,
		Exclude:  cfg.Exclude,
		Document: document.Options{SectionLevel: cfg.SectionLevel},
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := lib.Load(ctx, reporter); err != nil {
		if lib.Len() == 0 {
			return nil, err
		}
		for _, e := range multierr.Errors(err) {
			logger.Warn("skipped document", zap.Error(e))
		}
	}
	return lib, nil
}
