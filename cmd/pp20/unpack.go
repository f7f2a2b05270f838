package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuanying/pp20/internal/pp20"
)

const (
	packedExt   = ".pp"
	unpackedExt = ".out"
)

type unpackOptions struct {
	InputPath  string
	OutputPath string
	Decode     *pp20.Options
	Logger     *slog.Logger
}

func newUnpackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpack <file>",
		Short: "Decompress a PP20 stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readUnpackOptions(cmd, args)
			if err != nil {
				return err
			}
			if err := runUnpack(opts); err != nil {
				return fmt.Errorf("unpack failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output file path (default: input without .pp, or with .out appended)")
	cmd.Flags().Bool("lenient", false, "Accept streams with unread bits after the last segment")
	return cmd
}

func readUnpackOptions(cmd *cobra.Command, args []string) (unpackOptions, error) {
	logger, err := readLogger(cmd)
	if err != nil {
		return unpackOptions{}, err
	}

	decode := pp20.DefaultOptions()
	if lenient, _ := cmd.Flags().GetBool("lenient"); lenient {
		decode = pp20.LenientOptions()
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = defaultUnpackPath(args[0])
	}

	return unpackOptions{
		InputPath:  args[0],
		OutputPath: outputPath,
		Decode:     decode,
		Logger:     logger,
	}, nil
}

func runUnpack(opts unpackOptions) error {
	log := opts.Logger

	packed, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return err
	}
	if !pp20.IsCompressed(packed) {
		return fmt.Errorf("%s: %w: missing %q marker", opts.InputPath, pp20.ErrFormat, pp20.Magic)
	}

	out, margin, err := pp20.Decompress(packed, opts.Decode)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.InputPath, err)
	}
	log.Debug("decompressed", "input", opts.InputPath, "bytes", len(out), "margin_words", margin)

	if err := os.WriteFile(opts.OutputPath, out, 0o644); err != nil { //nolint:gosec // unpacked output is not secret
		return err
	}

	log.Info("unpacked",
		"input", opts.InputPath,
		"output", opts.OutputPath,
		"packed_bytes", len(packed),
		"decoded_bytes", len(out),
	)
	return nil
}

func defaultUnpackPath(input string) string {
	if trimmed, ok := strings.CutSuffix(input, packedExt); ok && trimmed != "" {
		return trimmed
	}
	return input + unpackedExt
}
