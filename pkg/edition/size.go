package edition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Size is a typography or spacing length. Content files give it as a
// number of pixels (32) or as a CSS length ("2rem"); either way it holds
// the CSS form, so 32 becomes "32px".
type Size string

// String returns the CSS length, or "" when unset.
func (s Size) String() string { return string(s) }

// UnmarshalJSON accepts a JSON number, a string or null.
func (s *Size) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = Size(v)
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("size %s is neither a number nor a string", data)
	}
	*s = Pixels(f)
	return nil
}

// Pixels returns the Size of n CSS pixels.
func Pixels(n float64) Size {
	return Size(strconv.FormatFloat(n, 'f', -1, 64) + "px")
}
