package engine

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that retrieval matched no record.
var ErrNotFound = errors.New("no matching record")

// MissingEntityError reports that an operation needed an entity the query
// did not carry.
type MissingEntityError struct {
	Entity string
}

func (e *MissingEntityError) Error() string {
	return fmt.Sprintf("query does not name a %s", e.Entity)
}

// UpstreamError wraps a failure from the data store or an external provider.
type UpstreamError struct {
	Source string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
