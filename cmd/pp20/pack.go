package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/yuanying/pp20/internal/pp20"
)

type packOptions struct {
	InputPath   string
	OutputPath  string
	Efficiency  pp20.Efficiency
	SearchLimit int
	Logger      *slog.Logger
}

func newPackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack <file>",
		Short: "Compress a file into a PP20 stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readPackOptions(cmd, args)
			if err != nil {
				return err
			}
			if err := runPack(opts); err != nil {
				return fmt.Errorf("pack failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output file path (default: input with .pp appended)")
	cmd.Flags().StringP("efficiency", "e", pp20.EfficiencyBest.String(),
		"Efficiency preset (fast, mediocre, good, verygood, best) or four offset widths like 9,10,12,13")
	cmd.Flags().Int("search-limit", pp20.DefaultSearchLimit, "Match candidates examined per input byte (higher is slower, smaller)")
	return cmd
}

func readPackOptions(cmd *cobra.Command, args []string) (packOptions, error) {
	logger, err := readLogger(cmd)
	if err != nil {
		return packOptions{}, err
	}

	effFlag, _ := cmd.Flags().GetString("efficiency")
	eff, err := pp20.ParseEfficiency(effFlag)
	if err != nil {
		return packOptions{}, fmt.Errorf("invalid --efficiency: %w", err)
	}

	searchLimit, _ := cmd.Flags().GetInt("search-limit")
	if searchLimit < 1 {
		return packOptions{}, fmt.Errorf("invalid --search-limit %d: must be at least 1", searchLimit)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = defaultPackPath(args[0])
	}

	return packOptions{
		InputPath:   args[0],
		OutputPath:  outputPath,
		Efficiency:  eff,
		SearchLimit: searchLimit,
		Logger:      logger,
	}, nil
}

func runPack(opts packOptions) error {
	log := opts.Logger

	data, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return err
	}
	log.Debug("compressing", "input", opts.InputPath, "bytes", len(data), "efficiency", opts.Efficiency.String(), "search_limit", opts.SearchLimit)

	packed, err := pp20.Compress(data, &pp20.CompressOptions{
		Efficiency:  opts.Efficiency,
		SearchLimit: opts.SearchLimit,
	})
	if err != nil {
		return err
	}
	margin, err := pp20.SafetyMargin(packed, nil)
	if err != nil {
		return fmt.Errorf("verify packed stream: %w", err)
	}

	if err := os.WriteFile(opts.OutputPath, packed, 0o644); err != nil { //nolint:gosec // packed output is not secret
		return err
	}

	log.Info("packed",
		"input", opts.InputPath,
		"output", opts.OutputPath,
		"decoded_bytes", len(data),
		"packed_bytes", len(packed),
		"ratio", ratio(len(packed), len(data)),
		"margin_words", margin,
	)
	return nil
}

func defaultPackPath(input string) string {
	return input + packedExt
}

func ratio(packed, decoded int) string {
	if decoded == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", float64(packed)*100/float64(decoded))
}
