// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doc-converter/internal/backend"
	"github.com/pdiddy/doc-converter/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui [file]",
	Short: "Open the interactive converter",
	Long: `UI opens a terminal interface for picking a file, choosing the target
format, confirming where to save the result, and following the conversion.
Failures show the error code, details, and troubleshooting tips.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUI,
}

func runUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	b, err := backend.Open(ctx, app.cfg.Backend, app.log)
	if err != nil {
		return err
	}
	opts, closeHistory := orchestratorOptions()
	defer closeHistory()

	dir, _ := cmd.Flags().GetString("dir")
	var file string
	if len(args) == 1 {
		file = args[0]
	}

	// Console mirroring would draw over the alternate screen.
	app.log.SetMirror(nil)

	return tui.Run(ctx, tui.Options{
		Bridge:       b,
		Orchestrator: opts,
		Dir:          dir,
		File:         file,
		Log:          app.log,
		Version:      version,
	})
}

func init() {
	uiCmd.Flags().String("dir", ".", "directory the file picker starts in")
	rootCmd.Flags().String("dir", ".", "directory the file picker starts in")

	rootCmd.AddCommand(uiCmd)
}
