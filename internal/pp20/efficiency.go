package pp20

import (
	"fmt"
	"strconv"
	"strings"
)

// Efficiency is the offset width, in bits, of each compression level 0..3.
type Efficiency [4]uint8

// Efficiency presets, from fastest to smallest output.
var (
	EfficiencyFast     = Efficiency{9, 9, 9, 9}
	EfficiencyMediocre = Efficiency{9, 10, 10, 10}
	EfficiencyGood     = Efficiency{9, 10, 11, 11}
	EfficiencyVeryGood = Efficiency{9, 10, 12, 12}
	EfficiencyBest     = Efficiency{9, 10, 12, 13}
)

const maxEncodeWidth = 16

var efficiencyNames = []struct {
	name string
	eff  Efficiency
}{
	{"fast", EfficiencyFast},
	{"mediocre", EfficiencyMediocre},
	{"good", EfficiencyGood},
	{"verygood", EfficiencyVeryGood},
	{"best", EfficiencyBest},
}

// ParseEfficiency accepts a preset name ("fast" .. "best") or four
// comma-separated widths such as "9,10,12,13".
func ParseEfficiency(s string) (Efficiency, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range efficiencyNames {
		if p.name == s {
			return p.eff, nil
		}
	}

	parts := strings.Split(s, ",")
	if len(parts) != len(Efficiency{}) {
		return Efficiency{}, fmt.Errorf("%w: %q is neither a preset nor four widths", ErrInvalidEfficiency, s)
	}

	var eff Efficiency
	for i, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return Efficiency{}, fmt.Errorf("%w: level %d: %w", ErrInvalidEfficiency, i, err)
		}
		eff[i] = uint8(v)
	}

	if err := eff.validate(); err != nil {
		return Efficiency{}, err
	}

	return eff, nil
}

// String returns the preset name of e, or its widths when e is not a preset.
func (e Efficiency) String() string {
	for _, p := range efficiencyNames {
		if p.eff == e {
			return p.name
		}
	}
	return fmt.Sprintf("%d,%d,%d,%d", e[0], e[1], e[2], e[3])
}

// validate checks that the encoder can use e: widths in 1..16, non-decreasing by level.
func (e Efficiency) validate() error {
	for level, width := range e {
		if width == 0 || width > maxEncodeWidth {
			return fmt.Errorf("%w: level %d width %d outside 1..%d", ErrInvalidEfficiency, level, width, maxEncodeWidth)
		}
		if level > 0 && width < e[level-1] {
			return fmt.Errorf("%w: level %d width %d narrower than level %d", ErrInvalidEfficiency, level, width, level-1)
		}
	}
	return nil
}

// windows returns the largest match distance each level can encode.
func (e Efficiency) windows() [4]int {
	var w [4]int
	for level, width := range e {
		if level == maxLevel {
			width = max(width, smallOffsetBits)
		}
		w[level] = 1 << width
	}
	return w
}
