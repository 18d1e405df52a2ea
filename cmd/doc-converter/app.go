// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc-converter/internal/config"
	"github.com/pdiddy/doc-converter/internal/history"
	"github.com/pdiddy/doc-converter/internal/logbuf"
	"github.com/pdiddy/doc-converter/internal/orchestrator"
	"github.com/pdiddy/doc-converter/pkg/types"
)

// app holds what every subcommand needs once configuration has loaded.
var app struct {
	cfg types.Config
	log *logbuf.Logger
}

// loadApp decodes the configuration and builds the logger.
func loadApp(cmd *cobra.Command, _ []string) error {
	if configErr != nil {
		return configErr
	}
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	log, err := config.Logger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	app.cfg, app.log = cfg, log
	log.Debug("Configuration loaded", map[string]any{"command": cmd.Name(), "backend": string(cfg.Backend.Mode)})
	return nil
}

// execute runs the root command and then saves the session log, whether or
// not the command failed.
func execute() error {
	app.cfg, app.log = types.Config{}, nil
	err := rootCmd.Execute()
	if serr := saveLog(); serr != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", serr)
		err = errors.Join(err, serr)
	}
	return err
}

// saveLog writes the in-memory log to log.file when one is configured.
func saveLog() error {
	if app.log == nil || app.cfg.Log.File == "" {
		return nil
	}
	f, err := os.Create(app.cfg.Log.File)
	if err != nil {
		return fmt.Errorf("writing log file: %w", err)
	}
	defer f.Close()
	if _, err := app.log.WriteTo(f); err != nil {
		return fmt.Errorf("writing log file: %w", err)
	}
	return nil
}

// openHistory opens the history database when recording is enabled. The
// returned store is nil when history is disabled.
func openHistory() (*history.Store, error) {
	if !app.cfg.History.Enabled {
		return nil, nil
	}
	return history.Open(app.cfg.History.Path)
}

// orchestratorOptions returns the options shared by the convert and ui
// commands, and a function releasing what they opened. A history database
// that cannot be opened disables recording with a warning.
func orchestratorOptions() ([]orchestrator.Option, func()) {
	opts := []orchestrator.Option{orchestrator.WithLogger(app.log)}
	store, err := openHistory()
	if err != nil {
		app.log.Warn("History disabled", map[string]any{"path": app.cfg.History.Path, "error": err.Error()})
		return opts, func() {}
	}
	if store == nil {
		return opts, func() {}
	}
	return append(opts, orchestrator.WithRecorder(store)), func() { store.Close() }
}
