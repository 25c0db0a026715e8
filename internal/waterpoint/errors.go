package waterpoint

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord is matched by every *MalformedRecordError.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError reports a record that lacks a required field.
type MalformedRecordError struct {
	Index int    // position of the record in the input
	Field string // missing attribute name
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("record %d: missing field %q", e.Index, e.Field)
}

// Is makes errors.Is(err, ErrMalformedRecord) succeed.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}
