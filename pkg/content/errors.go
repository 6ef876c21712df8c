package content

import (
	"errors"

	errs "github.com/vango-dev/almanac/internal/errors"
)

var (
	// ErrNotFound matches every not-found failure: unknown edition,
	// undeclared column or missing body file.
	ErrNotFound = errs.Sentinel(errs.CategoryNotFound)

	// ErrMalformed matches every content file that exists but does not
	// decode.
	ErrMalformed = errs.Sentinel(errs.CategoryMalformed)
)

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMalformed reports whether err is a malformed-content failure.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}

// result labels a load outcome for metrics and traces.
func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsNotFound(err):
		return "not_found"
	case IsMalformed(err):
		return "malformed"
	default:
		return "error"
	}
}
