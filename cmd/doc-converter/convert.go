// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pdiddy/doc-converter/internal/backend"
	"github.com/pdiddy/doc-converter/internal/dest"
	"github.com/pdiddy/doc-converter/internal/format"
	"github.com/pdiddy/doc-converter/internal/orchestrator"
	"github.com/pdiddy/doc-converter/pkg/types"
)

// errConversionFailed makes the command exit non-zero after the failure
// report has been printed.
var errConversionFailed = errors.New("conversion failed")

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert one Markdown or Word file",
	Long: `Convert validates the input file, stages it, and converts it with markitdown.
Markdown converts to Word and Word converts to Markdown unless --to says
otherwise.

The output is written next to the input with the new extension. Use --output
to pick the path (a directory keeps the generated name), or --interactive to
be asked for it.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	to, _ := cmd.Flags().GetString("to")
	output, _ := cmd.Flags().GetString("output")
	interactive, _ := cmd.Flags().GetBool("interactive")
	quiet, _ := cmd.Flags().GetBool("quiet")

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fs := afero.NewOsFs()
	sel, err := orchestrator.SelectPath(fs, args[0])
	if err != nil {
		return err
	}
	if to != "" {
		target, ok := format.FromExtension(to)
		if !ok {
			return fmt.Errorf("unknown target format %q: use md or docx", to)
		}
		sel = sel.WithTarget(target)
	}

	dir := filepath.Dir(args[0])
	var chooser orchestrator.DestinationChooser = dest.Fixed{Fs: fs, Path: output, Dir: dir}
	if interactive {
		chooser = dest.NewPrompt(cmd.InOrStdin(), cmd.ErrOrStderr(), dir)
	}

	b, err := backend.Open(ctx, app.cfg.Backend, app.log)
	if err != nil {
		return err
	}
	opts, closeHistory := orchestratorOptions()
	defer closeHistory()

	var obs orchestrator.Observer = quietObserver{}
	if !quiet {
		obs = &lineObserver{w: cmd.ErrOrStderr()}
	}

	out, err := orchestrator.New(b, chooser, opts...).Run(ctx, sel, obs)
	if err != nil {
		return err
	}
	return printOutcome(cmd.OutOrStdout(), cmd.ErrOrStderr(), out)
}

// printOutcome reports out and returns errConversionFailed for failures.
func printOutcome(stdout, stderr io.Writer, out orchestrator.Outcome) error {
	switch {
	case out.Succeeded():
		fmt.Fprintln(stdout, out.Message)
		if out.Result.OutputPath != "" {
			fmt.Fprintf(stdout, "Output: %s\n", out.Result.OutputPath)
		}
		return nil
	case out.Cancelled():
		fmt.Fprintln(stderr, out.Message)
		return nil
	}

	if out.Report == nil {
		fmt.Fprintln(stderr, out.Message)
		return errConversionFailed
	}
	fmt.Fprintln(stderr, out.Report.UserMessage)
	if len(out.Report.Tips) > 0 {
		fmt.Fprintln(stderr, "\nTroubleshooting tips:")
		for _, tip := range out.Report.Tips {
			fmt.Fprintf(stderr, "  - %s\n", tip)
		}
	}
	return errConversionFailed
}

// lineObserver prints one line per progress checkpoint.
type lineObserver struct {
	w     io.Writer
	state orchestrator.State
}

func (o *lineObserver) StateChanged(s orchestrator.State) { o.state = s }

func (o *lineObserver) Progress(percent int) {
	stage := o.state.String()
	if percent == orchestrator.ProgressDone {
		stage = orchestrator.Done.String()
	}
	fmt.Fprintf(o.w, "[%3d%%] %s\n", percent, stage)
}

type quietObserver struct{}

func (quietObserver) StateChanged(orchestrator.State) {}
func (quietObserver) Progress(int)                    {}

func init() {
	convertCmd.Flags().String("to", "", "target format: md or docx (default: the other format)")
	convertCmd.Flags().StringP("output", "o", "", "output file or directory")
	convertCmd.Flags().BoolP("interactive", "i", false, "ask for the output path")
	convertCmd.Flags().BoolP("quiet", "q", false, "do not print progress")

	_ = convertCmd.RegisterFlagCompletionFunc("to", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(types.FormatMarkdown), string(types.FormatWord)}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(convertCmd)
}
