package docparse

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedFormat means a parser does not handle this kind of document.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrUnsupportedLayout means an extractor found none of its fields.
	ErrUnsupportedLayout = errors.New("unsupported document layout")
)

// IsUnsupported reports whether err says "not my document" rather than a
// real failure. An AggregateError always counts as a real failure, even
// though some of its causes may be unsupported formats.
func IsUnsupported(err error) bool {
	var agg *AggregateError
	if errors.As(err, &agg) {
		return false
	}
	return errors.Is(err, ErrUnsupportedFormat) || errors.Is(err, ErrUnsupportedLayout)
}

// AggregateError is returned by a Chain when no parser succeeded and at
// least one failed for a reason other than an unsupported format.
type AggregateError struct {
	Msg    string
	Causes []error // in attempt order
}

func (e *AggregateError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Msg)
	for i, c := range e.Causes {
		if i == 0 {
			sb.WriteString(": ")
		} else {
			sb.WriteString("; ")
		}
		fmt.Fprintf(&sb, "[%d] %v", i+1, c)
	}
	return sb.String()
}

// Unwrap exposes every cause to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Causes
}
