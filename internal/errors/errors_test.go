package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
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
			name:    "state diagnostic",
			code:    "R001",
			wantMsg: "No data found",
			wantCat: CategoryState,
		},
		{
			name:    "producer error",
			code:    "R010",
			wantMsg: "Producer failed",
			wantCat: CategoryProducer,
		},
		{
			name:    "snapshot error",
			code:    "R020",
			wantMsg: "Snapshot could not be decoded",
			wantCat: CategorySnapshot,
		},
		{
			name:    "unknown error code",
			code:    "R999",
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

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "snap.json")
	if err.Message != `file "snap.json" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Code != "" {
		t.Errorf("Code = %q, want empty", err.Code)
	}
	if err.Error() != `file "snap.json" not found` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestErrorString(t *testing.T) {
	err := New("R020")
	if got := err.Error(); got != "R020: Snapshot could not be decoded" {
		t.Errorf("Error() = %q", got)
	}

	err.Wrap(stderrors.New("unexpected EOF"))
	if got := err.Error(); got != "R020: Snapshot could not be decoded: unexpected EOF" {
		t.Errorf("Error() with cause = %q", got)
	}
}

func TestUnwrapAndIs(t *testing.T) {
	cause := stderrors.New("boom")
	err := New("R010").Wrap(cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if !stderrors.Is(err, New("R010")) {
		t.Error("errors.Is should match on code")
	}
	if stderrors.Is(err, New("R011")) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "R010") != nil {
		t.Error("FromError(nil) should return nil")
	}

	plain := stderrors.New("plain")
	wrapped := FromError(plain, "R040")
	if wrapped.Code != "R040" || wrapped.Wrapped != plain {
		t.Errorf("FromError = %+v", wrapped)
	}

	coded := New("R030")
	if FromError(coded, "R040") != coded {
		t.Error("FromError should keep an existing coded error")
	}
}

func TestCode(t *testing.T) {
	if got := Code(New("R022")); got != "R022" {
		t.Errorf("Code = %q, want R022", got)
	}
	if got := Code(stderrors.New("x")); got != "" {
		t.Errorf("Code = %q, want empty", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("R001")
	out := err.Format()

	for _, want := range []string{"ERROR R001: No data found", "Hint: "} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("Format() should not contain ANSI codes when colors are disabled")
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("R020").Wrap(stderrors.New("bad"))

	var decoded map[string]string
	if jerr := json.Unmarshal([]byte(err.FormatJSON()), &decoded); jerr != nil {
		t.Fatalf("FormatJSON produced invalid JSON: %v", jerr)
	}
	if decoded["code"] != "R020" {
		t.Errorf("code = %q", decoded["code"])
	}
	if decoded["cause"] != "bad" {
		t.Errorf("cause = %q", decoded["cause"])
	}
	if decoded["category"] != string(CategorySnapshot) {
		t.Errorf("category = %q", decoded["category"])
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("Fprint(plain) = %q", buf.String())
	}

	buf.Reset()
	Fprint(&buf, New("R041"))
	if !strings.Contains(buf.String(), "R041") {
		t.Errorf("Fprint(coded) = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 10)
	for _, line := range lines {
		if len(line) > 10 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText lost words: %v", lines)
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText(\"\") should be nil")
	}
}

func TestRegistry(t *testing.T) {
	for _, code := range GetAllCodes() {
		tmpl, ok := GetTemplate(code)
		if !ok {
			t.Errorf("GetTemplate(%q) not found", code)
			continue
		}
		if tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("template %q is incomplete: %+v", code, tmpl)
		}
	}

	Register("R900", ErrorTemplate{Category: CategoryCLI, Message: "custom"})
	if New("R900").Message != "custom" {
		t.Error("Register did not add the template")
	}
}

func TestAttr(t *testing.T) {
	attr := New("R003").Attr()
	if attr.Key != "code" || attr.Value.String() != "R003" {
		t.Errorf("Attr() = %v", attr)
	}
}
