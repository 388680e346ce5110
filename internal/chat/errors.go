package chat

import (
	"errors"
	"fmt"
)

// ErrUnsupportedTimestamp is matched by every *TimestampError.
var ErrUnsupportedTimestamp = errors.New("unsupported transcript timestamp")

// TimestampError reports a header line whose date/time could not be read
// with any known layout. It aborts the whole parse.
type TimestampError struct {
	Line int    // 1-based line of the offending header
	Text string // composed "DATE TIME AMPM" text
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("line %d: unable to parse date/time %q", e.Line, e.Text)
}

// Is allows errors.Is(err, ErrUnsupportedTimestamp).
func (e *TimestampError) Is(target error) bool {
	return target == ErrUnsupportedTimestamp
}
