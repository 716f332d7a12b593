package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/tabtrans/internal"
	"codeberg.org/snonux/tabtrans/internal/config"
	"codeberg.org/snonux/tabtrans/internal/models"
	"codeberg.org/snonux/tabtrans/internal/processor"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tabtrans",
		Short: "Translate a spreadsheet column with a language model",
		Long: `tabtrans translates the text of one column of an XLSX or CSV file
through a chat-completion API and saves a copy of the file with the
translations in a new column right after the source column.

Settings and defaults are read from a JSON config file (AI_config.json).

Examples:
  tabtrans                                  # Use the defaults from AI_config.json
  tabtrans -F shop.xlsx -C 3 -S en -T de    # Translate column 3 of shop.xlsx
  tabtrans -F list.csv -B 20 -R 5           # Larger batches, more retries
  tabtrans --list-models                    # Show models of the configured endpoint`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.MarkChanged(cmd.Flags())
			return Run(cmd.Context(), flags, cmd.OutOrStdout())
		},
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	cmd.Flags().StringVarP(&flags.File, flagFile, "F", "", "Input file, .xlsx or .csv (default from config)")
	cmd.Flags().IntVarP(&flags.Column, flagColumn, "C", 0, "Column to translate, starting at 1 (default from config)")
	cmd.Flags().StringVarP(&flags.SourceLang, flagSource, "S", "", "Source language (default from config)")
	cmd.Flags().StringVarP(&flags.TargetLang, flagTarget, "T", "", "Target language (default from config)")
	cmd.Flags().StringVarP(&flags.CfgFile, flagConfig, "G", flags.CfgFile, "Config file")
	cmd.Flags().IntVarP(&flags.BatchSize, flagBatch, "B", 0, "Cells per API request (default from config)")
	cmd.Flags().IntVarP(&flags.Retries, flagRetries, "R", 0, "Retries per batch after the first attempt (default from config)")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List the models offered by the configured API endpoint")
}

// Run loads the config, resolves the effective parameters and translates
// the requested column. Status lines go to out.
func Run(ctx context.Context, flags *Flags, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(flags.CfgFile)
	if err != nil {
		return err
	}

	if flags.ListModels {
		return models.NewLister(cfg).ListAvailableModels(ctx, out)
	}

	params, err := Resolve(flags, cfg)
	if err != nil {
		return err
	}
	cfg.MaxRetries = params.MaxRetries

	fmt.Fprintf(out, "translating %s column %d (%s→%s)\n", params.File, params.Column, params.SourceLang, params.TargetLang)
	fmt.Fprintf(out, "settings: batch size=%d, max retries=%d\n", params.BatchSize, params.MaxRetries)

	proc, err := processor.NewProcessorFromConfig(ctx, cfg)
	if err != nil {
		return err
	}

	saved, err := proc.ProcessFile(ctx, processor.Job{
		Path:       params.File,
		Column:     params.Column,
		SourceLang: params.SourceLang,
		TargetLang: params.TargetLang,
		BatchSize:  params.BatchSize,
	})
	if err != nil {
		return fmt.Errorf("failed to translate %s: %w", params.File, err)
	}

	fmt.Fprintf(out, "\nDone! Translated file saved to: %s\n", saved)
	return nil
}

// Execute runs the root command and reports a fatal error on stderr
func Execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
