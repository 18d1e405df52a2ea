// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/doc-converter/internal/history"
)

var errHistoryDisabled = errors.New("history is disabled (history.enabled = false)")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show, export, or clear past conversions",
	Long: `History reads the SQLite database of finished conversion attempts. Every
attempt is recorded with its status (success, failure, or cancelled), the
error code for failures, and how long it took.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent conversions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := requireHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(cmd.Context(), historyFilter(cmd))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No conversions recorded.")
		return nil
	}

	t := table.New().Border(lipgloss.NormalBorder()).
		Headers("ID", "STARTED", "INPUT", "TARGET", "STATUS", "CODE", "DURATION")
	for _, r := range records {
		t.Row(
			fmt.Sprint(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.InputName,
			string(r.OutputFormat),
			r.Status,
			r.Code,
			r.Duration.Round(time.Millisecond).String(),
		)
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write conversion history as YAML or JSON",
	Args:  cobra.NoArgs,
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	store, err := requireHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	as, _ := cmd.Flags().GetString("format")
	switch strings.ToLower(as) {
	case "yaml", "yml":
		return store.ExportYAML(cmd.Context(), cmd.OutOrStdout(), historyFilter(cmd))
	case "json":
		return store.ExportJSON(cmd.Context(), cmd.OutOrStdout(), historyFilter(cmd))
	default:
		return fmt.Errorf("unknown export format %q: use yaml or json", as)
	}
}

// --- clear subcommand ---

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded conversions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := requireHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Clear(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d record(s)\n", n)
		return nil
	},
}

func requireHistory() (*history.Store, error) {
	store, err := openHistory()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errHistoryDisabled
	}
	return store, nil
}

func historyFilter(cmd *cobra.Command) history.Filter {
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")
	return history.Filter{Status: status, Limit: limit}
}

func init() {
	for _, c := range []*cobra.Command{historyListCmd, historyExportCmd} {
		c.Flags().String("status", "", "only show attempts with this status: success, failure, or cancelled")
		c.Flags().Int("limit", 0, "maximum number of records (0 = 50, negative = all)")
	}
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
