// Package nav maps the reader's navigation state to and from the flat URL
// query that addresses it.
//
// Three parameters carry the whole state: edition, article and view. Decode
// accepts any query and never fails; contradictory or partial parameters
// are settled by a fixed precedence. Encode always writes the canonical,
// minimal query, so Decode(Encode(s)) == s for every State.
package nav

import (
	"net/url"
	"strings"

	"github.com/vango-dev/almanac/pkg/edition"
)

// Decode returns the state addressed by query. A leading "?" is allowed.
// Malformed pairs are skipped, only the first value of a repeated key
// counts and an empty value counts as absent. Unrelated parameters are
// ignored, as is path: the state lives entirely in the query.
//
// Precedence, first match wins:
//
//	edition and article  -> Column
//	edition, view=contents -> Index
//	edition              -> Cover
//	view=archive         -> Archive
//	anything else        -> Home
func Decode(path, query string) State {
	// ParseQuery keeps every pair it could parse alongside the error.
	values, _ := url.ParseQuery(strings.TrimPrefix(query, "?"))
	return FromValues(values)
}

// FromValues is Decode over already-parsed values.
func FromValues(values url.Values) State {
	var p params
	decodeFlat(values, &p)

	e := edition.ID(p.Edition)
	switch {
	case p.Edition != "" && p.Article != "":
		return Column(e, p.Article)
	case p.Edition != "" && p.View == ViewContents:
		return Index(e)
	case p.Edition != "":
		return Cover(e)
	case p.View == ViewArchive:
		return Archive()
	default:
		return Home()
	}
}

// DecodeURL decodes the query of u.
func DecodeURL(u *url.URL) State {
	if u == nil {
		return Home()
	}
	return Decode(u.Path, u.RawQuery)
}

// Encode returns the canonical query of s without a leading "?".
func Encode(s State) string {
	var p params
	switch s.kind {
	case KindArchive:
		p.View = ViewArchive
	case KindCover:
		p.Edition = string(s.edition)
	case KindIndex:
		p.Edition = string(s.edition)
		p.View = ViewContents
	case KindColumn:
		p.Edition = string(s.edition)
		p.Article = s.column
	}
	return encodeFlat(p)
}

// Href joins base and the encoded state into a link. Home links to base
// itself.
func Href(base string, s State) string {
	q := Encode(s)
	if q == "" {
		if base == "" {
			return "/"
		}
		return base
	}
	return base + "?" + q
}
