package estimate

import (
	"errors"
	"strings"
)

// ErrInvalidInput is the only hard failure of Compute.
var ErrInvalidInput = errors.New("invalid input")

// InputError lists every field that failed to parse. It matches
// ErrInvalidInput with errors.Is.
type InputError struct {
	Details []string
}

func (e *InputError) Error() string {
	if len(e.Details) == 0 {
		return ErrInvalidInput.Error()
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(e.Details, "; ")
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Details extracts the field details from err, or nil when err is not an
// InputError.
func Details(err error) []string {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie.Details
	}
	return nil
}
