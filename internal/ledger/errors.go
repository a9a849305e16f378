package ledger

import (
	"errors"
	"fmt"
)

// ErrValidation marks input rejected before any write: empty required
// fields, mismatched batch list lengths, malformed statement rows.
var ErrValidation = errors.New("invalid input")

// ErrFormat marks a whole file rejected on its framing: a budget
// snapshot with the wrong version tag or a statement with an unexpected
// header.
var ErrFormat = errors.New("unrecognized format")

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func formatf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))
}
