// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doc-converter CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc-converter/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// configErr holds a config file read failure until a command runs.
var configErr error

// rootCmd is the base command for the doc-converter CLI. Without a
// subcommand it opens the interactive converter.
var rootCmd = &cobra.Command{
	Use:   "doc-converter",
	Short: "Convert documents between Markdown and Word",
	Long: `doc-converter converts Markdown (.md, .markdown) files to Word (.docx)
and Word files to Markdown. Conversion is delegated to markitdown, run either
from PATH or inside a docker/podman container.

Run without a subcommand to pick a file interactively, or use convert for
scripted one-shot conversions. Finished attempts are kept in a local history
database.`,
	SilenceUsage:      true,
	Args:              cobra.NoArgs,
	PersistentPreRunE: loadApp,
	RunE:              runUI,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./doc-converter.yaml or ~/.config/doc-converter/doc-converter.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().Bool("verbose", false, "mirror log entries to stderr")
	rootCmd.PersistentFlags().String("log-file", "", "write the session log to this file on exit")
	rootCmd.PersistentFlags().String("backend", "", "backend mode: exec or container")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.console", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag("backend.mode", rootCmd.PersistentFlags().Lookup("backend"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	config.Setup(viper.GetViper(), cfgFile)

	used, err := config.Read(viper.GetViper())
	configErr = err
	if used != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", used)
	}
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
