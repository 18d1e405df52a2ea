// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc-converter/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the merged configuration (defaults, file, environment, flags)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		as, _ := cmd.Flags().GetString("format")

		var (
			data []byte
			err  error
		)
		switch strings.ToLower(as) {
		case "yaml", "yml":
			data, err = config.Dump(app.cfg)
		case "toml":
			data, err = config.DumpTOML(app.cfg)
		default:
			return fmt.Errorf("unknown config format %q: use yaml or toml", as)
		}
		if err != nil {
			return err
		}

		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "# from %s\n", used)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configShowCmd.Flags().String("format", "yaml", "output format: yaml or toml")

	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
