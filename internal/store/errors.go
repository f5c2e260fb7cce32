package store

import (
	"fmt"
	"strings"
)

// MissingColumnsError reports required columns absent from an uploaded table.
// Missing is sorted so the message is deterministic.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: [%s]", strings.Join(e.Missing, " "))
}
