package edition

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingField reports a required field absent from a content file.
var ErrMissingField = errors.New("missing required field")

// DecodeEdition parses a config.json for id. The id stored in the result is
// always the registry id, whatever the file says.
func DecodeEdition(id ID, data []byte) (*Edition, error) {
	var e Edition
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if e.Title == "" {
		return nil, fmt.Errorf("%w: title", ErrMissingField)
	}
	if e.Columns == nil {
		return nil, fmt.Errorf("%w: columns", ErrMissingField)
	}
	for i, c := range e.Columns {
		if c.ID == "" {
			return nil, fmt.Errorf("%w: columns[%d].id", ErrMissingField, i)
		}
		if c.Title == "" {
			return nil, fmt.Errorf("%w: columns[%d].title", ErrMissingField, i)
		}
	}
	e.ID = id
	if e.Year == 0 {
		e.Year = id.Year()
	}
	if e.Month == 0 {
		e.Month = int(id.Month())
	}
	return &e, nil
}

// DecodeTheme parses a theme.json.
func DecodeTheme(data []byte) (*Theme, error) {
	var t Theme
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse theme: %w", err)
	}
	return &t, nil
}

// DecodeBody parses a column body file.
func DecodeBody(data []byte) (Body, error) {
	var b Body
	if err := json.Unmarshal(data, &b); err != nil {
		return Body{}, fmt.Errorf("parse column body: %w", err)
	}
	return b, nil
}

// DecodeGlobalStyle parses global/styles.json.
func DecodeGlobalStyle(data []byte) (GlobalStyle, error) {
	var s GlobalStyle
	if err := json.Unmarshal(data, &s); err != nil {
		return GlobalStyle{}, fmt.Errorf("parse styles: %w", err)
	}
	return s, nil
}

// DecodeGlobalConfig parses global/config.json.
func DecodeGlobalConfig(data []byte) (GlobalConfig, error) {
	var c GlobalConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return GlobalConfig{}, fmt.Errorf("parse global config: %w", err)
	}
	return c, nil
}
