package source

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ItemError is one undecodable item of a bulk document.
type ItemError struct {
	Key string
	Err error
}

func (e *ItemError) Error() string { return fmt.Sprintf("source: item %q: %v", e.Key, e.Err) }
func (e *ItemError) Unwrap() error { return e.Err }

func appendItemErr(errs error, key string, err error) error {
	return appendErr(errs, &ItemError{Key: key, Err: err})
}

func appendErr(errs, err error) error {
	return multierror.Append(errs, err).ErrorOrNil()
}
