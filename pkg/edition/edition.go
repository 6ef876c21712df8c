package edition

import "sort"

// Author is the byline of a column.
type Author struct {
	Name   string `json:"name"`
	Bio    string `json:"bio,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Email  string `json:"email,omitempty"`
}

// Column is one named section of an edition. Its body lives in a separate
// file and is loaded on demand.
type Column struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Author  Author       `json:"author"`
	Order   int          `json:"order"`
	Excerpt string       `json:"excerpt,omitempty"`
	Image   string       `json:"image,omitempty"`
	Theme   *ColumnTheme `json:"theme,omitempty"`
}

// Edition is a loaded config.json. Values are shared by every reader once
// memoized and must not be modified.
type Edition struct {
	ID               ID       `json:"id"`
	Year             int      `json:"year,omitempty"`
	Month            int      `json:"month,omitempty"`
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle,omitempty"`
	ThemeTitleLine1  string   `json:"themeTitleLine1,omitempty"`
	ThemeTitleLine2  string   `json:"themeTitleLine2,omitempty"`
	CoverDescription string   `json:"coverDescription,omitempty"`
	CoverImage       string   `json:"coverImage,omitempty"`
	CoverColor       string   `json:"coverColor,omitempty"`
	EditorNote       string   `json:"editorNote,omitempty"`
	Columns          []Column `json:"columns"`
}

// Column returns the first declared column with the given id.
func (e *Edition) Column(id string) (*Column, bool) {
	if e == nil {
		return nil, false
	}
	for i := range e.Columns {
		if e.Columns[i].ID == id {
			return &e.Columns[i], true
		}
	}
	return nil, false
}

// SortedColumns returns a copy of the columns ordered by ascending Order.
// Columns with equal Order keep their declaration order.
func (e *Edition) SortedColumns() []Column {
	if e == nil {
		return nil
	}
	out := make([]Column, len(e.Columns))
	copy(out, e.Columns)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// Summary is the archive listing of an edition.
type Summary struct {
	ID          ID     `json:"id"`
	Label       string `json:"label"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	CoverColor  string `json:"coverColor,omitempty"`
	CoverImage  string `json:"coverImage,omitempty"`
	ColumnCount int    `json:"columnCount"`
}

// Summarize builds the archive listing entry.
func (e *Edition) Summarize() Summary {
	return Summary{
		ID:          e.ID,
		Label:       e.ID.Label(),
		Title:       e.Title,
		Subtitle:    e.Subtitle,
		CoverColor:  e.CoverColor,
		CoverImage:  e.CoverImage,
		ColumnCount: len(e.Columns),
	}
}

// Body is a column body file. Either field may carry the text.
type Body struct {
	Content string `json:"content,omitempty"`
	Text    string `json:"text,omitempty"`
}

// String returns Content when non-empty, otherwise Text.
func (b Body) String() string {
	if b.Content != "" {
		return b.Content
	}
	return b.Text
}
