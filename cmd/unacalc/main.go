// Command unacalc is a unit-aware calculator.
//
// Without arguments it opens an interactive prompt that re-evaluates
// the expression on every keystroke. The eval subcommand evaluates a
// single expression and prints the result, for shell use.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tovam/unacalc-go/calc"
	"github.com/tovam/unacalc-go/internal/config"
	"github.com/tovam/unacalc-go/internal/ui"
)

var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "unacalc",
		Short: "Unit-aware calculator",
		Long: `unacalc evaluates arithmetic over physical quantities, converting
between units and dimensions as it goes.

  unacalc eval "10 kg * 9.81 m/s^2"
  unacalc eval "100 W * 2 h in Wh"

Run without arguments for the interactive prompt.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			ctx := calc.WithAPDContext(cmd.Context(), cfg.APDContext())
			driver := calc.NewDriver(calc.NewRegistry(), cfg.FormatOptions())
			return ui.Run(ctx, driver)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.config/unacalc/config.toml)")
	root.AddCommand(newEvalCommand(&configPath))
	root.AddCommand(newVersionCommand())
	return root
}

func newEvalCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate one expression and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			ctx := calc.WithAPDContext(cmd.Context(), cfg.APDContext())
			reg := calc.NewRegistry()

			// Quoting unit expressions is easy to forget; accept the
			// expression split across arguments.
			input := strings.Join(args, " ")
			result, err := calc.EvaluateString(ctx, reg, input)
			if err != nil {
				return err
			}
			text, err := result.Format(ctx, reg, cfg.FormatOptions())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "unacalc %s\n", version)
		},
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}
