// Package session holds the per-reader state of the magazine: the display
// mode and the set of authors the reader follows ("pen friends").
//
// Sessions live in memory only. A Manager hands out sessions by id and
// drops those that have been idle longer than its TTL.
package session
