package nav

import (
	"encoding/json"
	"fmt"

	"github.com/vango-dev/almanac/pkg/edition"
)

// Kind names the screen a State addresses.
type Kind int

const (
	KindHome Kind = iota
	KindArchive
	KindCover
	KindIndex
	KindColumn
)

var kindNames = [...]string{
	KindHome:    "home",
	KindArchive: "archive",
	KindCover:   "cover",
	KindIndex:   "index",
	KindColumn:  "column",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return KindHome, false
}

// State is the navigation state of the reader. The zero value is Home.
//
// States are built with Home, Archive, Cover, Index and Column, which never
// produce a state carrying an empty id: an id that is missing collapses the
// state to its nearest ancestor. States are comparable with ==.
type State struct {
	kind    Kind
	edition edition.ID
	column  string
}

// Home is the landing screen.
func Home() State { return State{} }

// Archive lists every edition.
func Archive() State { return State{kind: KindArchive} }

// Cover is the cover of edition e.
func Cover(e edition.ID) State {
	if e == "" {
		return Home()
	}
	return State{kind: KindCover, edition: e}
}

// Index is the table of contents of edition e.
func Index(e edition.ID) State {
	if e == "" {
		return Home()
	}
	return State{kind: KindIndex, edition: e}
}

// Column is column c of edition e.
func Column(e edition.ID, c string) State {
	if c == "" {
		return Cover(e)
	}
	if e == "" {
		return Home()
	}
	return State{kind: KindColumn, edition: e, column: c}
}

// Kind returns the screen kind.
func (s State) Kind() Kind { return s.kind }

// Edition returns the edition id, or "" for Home and Archive.
func (s State) Edition() edition.ID { return s.edition }

// ColumnID returns the column id, or "" unless s is a Column state.
func (s State) ColumnID() string { return s.column }

// Up returns the screen a "back" control leads to.
func (s State) Up() State {
	switch s.kind {
	case KindColumn:
		return Index(s.edition)
	case KindIndex:
		return Cover(s.edition)
	default:
		return Home()
	}
}

func (s State) String() string {
	switch s.kind {
	case KindCover, KindIndex:
		return fmt.Sprintf("%s{%s}", s.kind, s.edition)
	case KindColumn:
		return fmt.Sprintf("%s{%s, %s}", s.kind, s.edition, s.column)
	default:
		return s.kind.String()
	}
}

type stateJSON struct {
	Kind    string     `json:"kind"`
	Edition edition.ID `json:"edition,omitempty"`
	Column  string     `json:"column,omitempty"`
}

// MarshalJSON encodes s as {"kind", "edition", "column"}.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateJSON{Kind: s.kind.String(), Edition: s.edition, Column: s.column})
}

// UnmarshalJSON decodes through the constructors, so the result is always
// a valid state. An unknown kind decodes as Home.
func (s *State) UnmarshalJSON(data []byte) error {
	var v stateJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	kind, _ := ParseKind(v.Kind)
	*s = Of(kind, v.Edition, v.Column)
	return nil
}

// Of builds the state of kind k from loose parts, collapsing it like the
// constructors do.
func Of(k Kind, e edition.ID, c string) State {
	switch k {
	case KindArchive:
		return Archive()
	case KindCover:
		return Cover(e)
	case KindIndex:
		return Index(e)
	case KindColumn:
		return Column(e, c)
	default:
		return Home()
	}
}
