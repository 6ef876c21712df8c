// Package edition defines the content model of the magazine: editions,
// their columns, and the theme layers declared in the content tree.
//
// Values decoded here are read-only once handed out. Empty strings in theme
// fields mean "not set" so that the cascade falls through to a lower layer.
package edition
