package firestore

import "fmt"

// notFoundError covers queries that legitimately return no documents, where
// the store never raises a gRPC NotFound on its own.
type notFoundError struct {
	op  string
	key string
}

func notFound(op, key string) *notFoundError {
	return &notFoundError{op: op, key: key}
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("%s: %q not found", e.op, e.key)
}

func (e *notFoundError) IsNotFound() bool    { return true }
func (e *notFoundError) IsConflict() bool    { return false }
func (e *notFoundError) IsUnavailable() bool { return false }
