package session

import (
	"sort"
	"strings"
)

// PenFriends is an immutable, sorted set of author names. Names compare
// after trimming surrounding space.
type PenFriends struct {
	names []string
}

// NewPenFriends builds a set from names, dropping blanks and duplicates.
func NewPenFriends(names ...string) PenFriends {
	var p PenFriends
	for _, n := range names {
		p = p.With(n)
	}
	return p
}

// Has reports whether name is in the set.
func (p PenFriends) Has(name string) bool {
	_, found := p.search(strings.TrimSpace(name))
	return found
}

// With returns the set plus name.
func (p PenFriends) With(name string) PenFriends {
	name = strings.TrimSpace(name)
	if name == "" {
		return p
	}
	i, found := p.search(name)
	if found {
		return p
	}
	names := make([]string, 0, len(p.names)+1)
	names = append(names, p.names[:i]...)
	names = append(names, name)
	names = append(names, p.names[i:]...)
	return PenFriends{names: names}
}

// Without returns the set minus name.
func (p PenFriends) Without(name string) PenFriends {
	i, found := p.search(strings.TrimSpace(name))
	if !found {
		return p
	}
	names := make([]string, 0, len(p.names)-1)
	names = append(names, p.names[:i]...)
	names = append(names, p.names[i+1:]...)
	return PenFriends{names: names}
}

// Names returns the members in order. The slice is a copy.
func (p PenFriends) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Len returns the number of members.
func (p PenFriends) Len() int {
	return len(p.names)
}

// Equal reports whether both sets have the same members.
func (p PenFriends) Equal(o PenFriends) bool {
	if len(p.names) != len(o.names) {
		return false
	}
	for i := range p.names {
		if p.names[i] != o.names[i] {
			return false
		}
	}
	return true
}

func (p PenFriends) search(name string) (int, bool) {
	i := sort.SearchStrings(p.names, name)
	return i, i < len(p.names) && p.names[i] == name
}
