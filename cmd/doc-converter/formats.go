// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/doc-converter/internal/format"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported formats and conversions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		formats := table.New().Border(lipgloss.NormalBorder()).Headers("FORMAT", "EXTENSION", "DESCRIPTION")
		for _, f := range format.Supported() {
			formats.Row(f.Name, "."+f.Extension, f.Description)
		}

		conversions := table.New().Border(lipgloss.NormalBorder()).Headers("FROM", "TO")
		for _, c := range format.Conversions() {
			conversions.Row(c.From.DisplayName(), c.To.DisplayName())
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, formats.Render())
		fmt.Fprintln(out, conversions.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
