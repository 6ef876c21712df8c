package almanac

import (
	"context"

	"github.com/vango-dev/almanac/internal/errors"
	"github.com/vango-dev/almanac/pkg/edition"
	"github.com/vango-dev/almanac/pkg/nav"
	"github.com/vango-dev/almanac/pkg/theme"
)

// Link is a navigation target with its display label.
type Link struct {
	Label string    `json:"label"`
	Href  string    `json:"href"`
	State nav.State `json:"state"`
}

// View is everything a presentation layer needs to draw one screen.
type View struct {
	State    nav.State            `json:"state"`
	Href     string               `json:"href"`
	Up       *Link                `json:"up,omitempty"`
	Mode     theme.Mode           `json:"mode"`
	Theme    theme.Resolved       `json:"theme"`
	Magazine edition.GlobalConfig `json:"magazine"`

	// Home.
	Latest *edition.Summary `json:"latest,omitempty"`

	// Archive.
	Archive []edition.Summary `json:"archive,omitempty"`

	// Cover, Index and Column.
	Edition *edition.Edition `json:"edition,omitempty"`
	Label   string           `json:"label,omitempty"`
	Columns []edition.Column `json:"columns,omitempty"`

	// Column.
	Column *edition.Column `json:"column,omitempty"`
	Body   string          `json:"body,omitempty"`
	Prev   *Link           `json:"prev,omitempty"`
	Next   *Link           `json:"next,omitempty"`
}

// View assembles the screen addressed by s.
//
// Unknown or malformed editions and undeclared columns are errors. A
// missing or broken column body renders as an empty body, and a broken
// theme.json falls back to the global theme; both are logged.
func (a *App) View(ctx context.Context, s nav.State, mode theme.Mode) (*View, error) {
	v := &View{
		State:    s,
		Href:     nav.Href("/", s),
		Mode:     mode,
		Magazine: a.global.Config,
	}
	if s.Kind() != nav.KindHome {
		v.Up = a.link(ctx, s.Up())
	}

	switch s.Kind() {
	case nav.KindHome:
		v.Theme = a.engine.Resolve(theme.Scope{}, mode)
		if id, ok := a.registry.Latest(); ok {
			if e, err := a.resolver.LoadEdition(ctx, id); err != nil {
				a.logger.Warn("latest edition unavailable", "edition", id, "error", err)
			} else {
				sum := e.Summarize()
				v.Latest = &sum
			}
		}
		return v, nil

	case nav.KindArchive:
		v.Theme = a.engine.Resolve(theme.Scope{}, mode)
		v.Archive = a.resolver.Archive(ctx)
		return v, nil
	}

	e, err := a.resolver.LoadEdition(ctx, s.Edition())
	if err != nil {
		return nil, err
	}
	v.Edition = e
	v.Label = e.ID.Label()
	scope := theme.EditionScope(e, a.editionTheme(ctx, e.ID))

	switch s.Kind() {
	case nav.KindCover:
		v.Theme = a.engine.Resolve(scope, mode)
	case nav.KindIndex:
		v.Theme = a.engine.Resolve(scope, mode)
		v.Columns = e.SortedColumns()
	case nav.KindColumn:
		c, ok := e.Column(s.ColumnID())
		if !ok {
			return nil, errors.New("A101").WithDetailf("column %q in edition %q", s.ColumnID(), e.ID)
		}
		v.Column = c
		v.Theme = a.engine.Resolve(scope.WithColumn(c), mode)
		v.Body = a.resolver.ColumnBody(ctx, e.ID, c.ID)
		v.Prev, v.Next = neighbours(e, c.ID)
	}
	return v, nil
}

// Theme resolves the theme of the screen addressed by s without loading
// any column body.
func (a *App) Theme(ctx context.Context, s nav.State, mode theme.Mode) (theme.Resolved, error) {
	switch s.Kind() {
	case nav.KindHome, nav.KindArchive:
		return a.engine.Resolve(theme.Scope{}, mode), nil
	}
	e, err := a.resolver.LoadEdition(ctx, s.Edition())
	if err != nil {
		return theme.Resolved{}, err
	}
	scope := theme.EditionScope(e, a.editionTheme(ctx, e.ID))
	if s.Kind() == nav.KindColumn {
		c, ok := e.Column(s.ColumnID())
		if !ok {
			return theme.Resolved{}, errors.New("A101").WithDetailf("column %q in edition %q", s.ColumnID(), e.ID)
		}
		scope = scope.WithColumn(c)
	}
	return a.engine.Resolve(scope, mode), nil
}

func (a *App) editionTheme(ctx context.Context, id edition.ID) *edition.Theme {
	th, err := a.resolver.LoadTheme(ctx, id)
	if err != nil {
		a.logger.Warn("edition theme unavailable, using global theme", "edition", id, "error", err)
		return nil
	}
	return th
}

// link labels s for a back control.
func (a *App) link(ctx context.Context, s nav.State) *Link {
	l := &Link{Href: nav.Href("/", s), State: s}
	switch s.Kind() {
	case nav.KindHome:
		l.Label = a.global.Config.MagazineName
		if l.Label == "" {
			l.Label = "Home"
		}
	case nav.KindArchive:
		l.Label = "Archive"
	case nav.KindCover:
		l.Label = s.Edition().Label()
		if e, err := a.resolver.LoadEdition(ctx, s.Edition()); err == nil {
			l.Label = e.Title
		}
	case nav.KindIndex:
		l.Label = "Contents"
	}
	return l
}

// neighbours returns the columns around id in reading order.
func neighbours(e *edition.Edition, id string) (prev, next *Link) {
	cols := e.SortedColumns()
	for i := range cols {
		if cols[i].ID != id {
			continue
		}
		if i > 0 {
			prev = columnLink(e.ID, cols[i-1])
		}
		if i+1 < len(cols) {
			next = columnLink(e.ID, cols[i+1])
		}
		return prev, next
	}
	return nil, nil
}

func columnLink(id edition.ID, c edition.Column) *Link {
	s := nav.Column(id, c.ID)
	return &Link{Label: c.Title, Href: nav.Href("/", s), State: s}
}
