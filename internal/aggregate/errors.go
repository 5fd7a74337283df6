package aggregate

import (
	"errors"
	"fmt"
)

var ErrInputFormat = errors.New("invalid input format")

// InputFormatError reports a transaction export that cannot be read as
// delimited text with the configured encoding. It is fatal for the run.
type InputFormatError struct {
	Source string
	Reason string
	Err    error
}

func (e *InputFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Source, ErrInputFormat, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, ErrInputFormat, e.Reason)
}

func (e *InputFormatError) Unwrap() error {
	return e.Err
}

func (e *InputFormatError) Is(target error) bool {
	return target == ErrInputFormat
}
