// Package background classifies light background pixels and erases them to
// full transparency.
package background

import (
	"fmt"

	"github.com/ds124wfegd/bgremove/internal/entity"
)

// DefaultMaxDeviation is the largest distance of any channel from the
// channel mean for which a pixel still counts as grey.
const DefaultMaxDeviation = 30

type Rule interface {
	IsBackground(r, g, b uint8) bool
}

// WhiteRule matches pixels whose three channels all exceed 255-Threshold.
type WhiteRule struct {
	Threshold int
}

func (w WhiteRule) IsBackground(r, g, b uint8) bool {
	bound := 255 - w.Threshold
	return int(r) > bound && int(g) > bound && int(b) > bound
}

// GreyRule matches light, low-saturation pixels: either the channels stay
// within MaxDeviation of their mean while the mean exceeds 255-Threshold, or
// the pixel already satisfies the white rule.
//
// The mean is compared scaled by three so the test is exact in integers.
type GreyRule struct {
	Threshold    int
	MaxDeviation int
}

func (gr GreyRule) IsBackground(r, g, b uint8) bool {
	bound := 255 - gr.Threshold
	if int(r) > bound && int(g) > bound && int(b) > bound {
		return true
	}

	sum := int(r) + int(g) + int(b)
	if sum <= 3*bound {
		return false
	}

	dev := absInt(3*int(r) - sum)
	if d := absInt(3*int(g) - sum); d > dev {
		dev = d
	}
	if d := absInt(3*int(b) - sum); d > dev {
		dev = d
	}
	return dev < 3*gr.MaxDeviation
}

func NewRule(mode entity.Mode, threshold int) (Rule, error) {
	if threshold < 0 || threshold > 255 {
		return nil, fmt.Errorf("%w: got %d", entity.ErrInvalidThreshold, threshold)
	}

	switch mode {
	case entity.ModeWhite:
		return WhiteRule{Threshold: threshold}, nil
	case entity.ModeGrey:
		return GreyRule{Threshold: threshold, MaxDeviation: DefaultMaxDeviation}, nil
	default:
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownMode, mode)
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
