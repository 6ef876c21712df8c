// Package errors provides structured, coded errors for almanac.
//
// Every failure the content pipeline can report has a registered code that
// maps to a category, a short message, a detail line and a documentation URL.
//
// # Categories
//
//   - not_found: an edition, column or body that is not published
//   - malformed: a content file that exists but cannot be decoded
//   - config: almanac.json or content source problems
//   - request: bad HTTP parameters
//   - cli: bad command arguments
//
// # Usage
//
//	err := errors.New("A100").
//	    WithDetailf("edition %q", id).
//	    WithSuggestion("run `almanac editions` to list published editions")
//
// Errors compare by code, or by category against a Sentinel:
//
//	errors.Is(err, errors.New("A100"))
//	errors.Is(err, errors.Sentinel(errors.CategoryNotFound))
package errors
