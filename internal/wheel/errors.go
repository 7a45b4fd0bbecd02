package wheel

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDocument indicates a command that needs a loaded document.
	ErrNoDocument = errors.New("no document loaded")

	// ErrHidden indicates a command issued while the visualization is hidden.
	ErrHidden = errors.New("visualization hidden")

	// ErrStaleReference indicates that the section an edit refers to no
	// longer exists in the freshly parsed document.
	ErrStaleReference = errors.New("section no longer exists in the document")
)

// StoreError reports a failed document read or write. The view's tree and
// selection are left as they were before the operation.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s document %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
