// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doc-converter/internal/backend"
	"github.com/pdiddy/doc-converter/internal/errinfo"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the markitdown backend is reachable",
	Long: `Check confirms the configured backend can run conversions: in exec mode
the markitdown binary must answer --version; in container mode the runtime
must be running and the image must be present.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, err := backend.Open(ctx, app.cfg.Backend, app.log)
		if err != nil {
			report := errinfo.FromError(err, nil)
			fmt.Fprintln(cmd.ErrOrStderr(), report.UserMessage)
			return err
		}

		name := fmt.Sprintf("%s (%s)", b.Tool().Name(), app.cfg.Backend.Mode)
		if err := b.Available(ctx); err != nil {
			report := errinfo.FromError(err, map[string]any{"backend": name})
			fmt.Fprintln(cmd.ErrOrStderr(), report.UserMessage)
			for _, tip := range report.Tips {
				fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", tip)
			}
			return fmt.Errorf("backend %s is not available", name)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backend %s is available\n", name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
