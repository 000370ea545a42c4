package mines

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidConfiguration = errors.New("invalid board configuration")

// InvalidConfigurationError reports board parameters no grid can be built from.
type InvalidConfigurationError struct {
	Width, Height int
	MineCount     int
	Reason        string
}

// [InvalidConfigurationError] implements [error]
func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf(
		"invalid board configuration %dx%d(%d): %s",
		e.Width, e.Height, e.MineCount, e.Reason,
	)
}

func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// ValidateConfiguration checks board dimensions before any grid is built.
func ValidateConfiguration(width, height, mineCount int) error {
	var reason string
	switch {
	case width <= 0:
		reason = "width must be positive"
	case height <= 0:
		reason = "height must be positive"
	case mineCount < 0:
		reason = "mine count cannot be negative"
	case mineCount > math.MaxUint16:
		reason = fmt.Sprintf("mine count cannot exceed %d", math.MaxUint16)
	case mineCount >= width*height:
		reason = fmt.Sprintf(
			"not enough space for %d mines (%d >= %d * %d)",
			mineCount, mineCount, width, height,
		)
	default:
		return nil
	}
	return &InvalidConfigurationError{
		Width: width, Height: height, MineCount: mineCount, Reason: reason,
	}
}
