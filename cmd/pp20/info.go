package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/yuanying/pp20/internal/pp20"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show the header fields and safety margin of a PP20 stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := readLogger(cmd)
			if err != nil {
				return err
			}

			packed, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("info failed: %w", err)
			}
			logger.Debug("inspecting", "input", args[0], "bytes", len(packed))

			if err := writeInfo(cmd.OutOrStdout(), args[0], packed); err != nil {
				return fmt.Errorf("info failed: %w", err)
			}
			return nil
		},
	}
}

func writeInfo(w io.Writer, name string, packed []byte) error {
	hdr, err := pp20.ParseHeader(packed)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	margin, err := pp20.SafetyMargin(packed, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	eff := hdr.Efficiency
	_, err = fmt.Fprintf(w, `file:        %s
efficiency:  %s (%d,%d,%d,%d)
packed:      %d bytes
decoded:     %d bytes
skip bits:   %d
margin:      %d words
in-place:    %d bytes
`,
		name,
		eff, eff[0], eff[1], eff[2], eff[3],
		hdr.PackedLen,
		hdr.DecodedLen,
		hdr.SkipBits,
		margin,
		pp20.InPlaceLen(hdr.PackedLen, margin),
	)
	return err
}
