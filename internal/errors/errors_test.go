package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "edition not found",
			code:    "A100",
			wantMsg: "Edition not found",
			wantCat: CategoryNotFound,
		},
		{
			name:    "malformed config",
			code:    "A110",
			wantMsg: "Malformed edition config",
			wantCat: CategoryMalformed,
		},
		{
			name:    "config file",
			code:    "A120",
			wantMsg: "Configuration file error",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "A999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	err := New("A100").WithDetail(`edition "2025-11"`)
	want := `A100: Edition not found (edition "2025-11")`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &Error{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestError_IsAndUnwrap(t *testing.T) {
	cause := stderrors.New("disk on fire")
	err := fmt.Errorf("loading: %w", New("A110").Wrap(cause))

	if !stderrors.Is(err, cause) {
		t.Error("expected wrapped cause to match")
	}
	if !stderrors.Is(err, New("A110")) {
		t.Error("expected code match")
	}
	if stderrors.Is(err, New("A111")) {
		t.Error("different code must not match")
	}
	if !stderrors.Is(err, Sentinel(CategoryMalformed)) {
		t.Error("expected category sentinel to match")
	}
	if stderrors.Is(err, Sentinel(CategoryNotFound)) {
		t.Error("different category must not match")
	}
	if got := CodeOf(err); got != "A110" {
		t.Errorf("CodeOf = %q, want A110", got)
	}
	if got := CategoryOf(err); got != CategoryMalformed {
		t.Errorf("CategoryOf = %q, want %q", got, CategoryMalformed)
	}
	if got := CategoryOf(cause); got != "" {
		t.Errorf("CategoryOf(plain) = %q, want empty", got)
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "A120") != nil {
		t.Fatal("FromError(nil) should be nil")
	}

	existing := New("A100")
	if got := FromError(fmt.Errorf("ctx: %w", existing), "A120"); got != existing {
		t.Error("FromError should return the existing structured error")
	}

	got := FromError(stderrors.New("boom"), "A120")
	if got.Code != "A120" || got.Wrapped == nil {
		t.Errorf("FromError = %+v, want A120 wrapping cause", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("A101").
		WithDetail(`column "x" in edition "2025-11"`).
		WithSuggestion("check the columns array in config.json").
		Wrap(stderrors.New("lookup failed"))

	out := err.Format()
	for _, want := range []string{
		"ERROR A101: Column not found",
		`column "x" in edition "2025-11"`,
		"Cause: lookup failed",
		"Hint: check the columns array",
		"Learn more: " + docBase + "A101",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}

	if got := err.FormatCompact(); got != "A101: Column not found" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestMarshalJSON(t *testing.T) {
	err := New("A100").WithDetail("x").Wrap(stderrors.New("s3 key content/x/config.json"))
	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatal(jerr)
	}
	if strings.Contains(string(data), "s3 key") {
		t.Errorf("wrapped cause leaked into JSON: %s", data)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["code"] != "A100" || decoded["category"] != "not_found" {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, New("A120"))
	if !strings.Contains(buf.String(), "ERROR A120") {
		t.Errorf("structured output = %q", buf.String())
	}

	buf.Reset()
	Fprint(&buf, stderrors.New("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("plain output = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 30), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line too long: %q", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should produce no lines")
	}
}
