package errors

import (
	"bytes"
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
			name:    "runtime error",
			code:    "E002",
			wantMsg: "Hook order changed",
			wantCat: CategoryRuntime,
		},
		{
			name:    "store error",
			code:    "E101",
			wantMsg: "Reducers may not dispatch actions",
			wantCat: CategoryStore,
		},
		{
			name:    "config error",
			code:    "E201",
			wantMsg: "Invalid configuration value",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
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

func TestPrshError_Error(t *testing.T) {
	err := New("E101")
	if got, want := err.Error(), "E101: Reducers may not dispatch actions"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := New("E200").Wrap(fmt.Errorf("unexpected EOF"))
	if got, want := wrapped.Error(), "E200: Invalid configuration file: unexpected EOF"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &PrshError{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New("E101")
	err := fmt.Errorf("dispatch: %w", New("E101").WithSuggestion("x"))

	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should match PrshErrors with the same code")
	}
	if stderrors.Is(err, New("E102")) {
		t.Error("errors.Is should not match a different code")
	}
	if stderrors.Is(&PrshError{Message: "a"}, &PrshError{Message: "a"}) {
		t.Error("errors without codes should only match by identity")
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := New("E011").Wrap(cause)
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E200") != nil {
		t.Error("FromError(nil) should return nil")
	}

	pe := New("E201")
	if FromError(pe, "E200") != pe {
		t.Error("FromError should return PrshError unchanged")
	}

	got := FromError(stderrors.New("disk"), "E200")
	if got.Code != "E200" || got.Wrapped == nil {
		t.Errorf("FromError = %+v", got)
	}
}

func TestFromPanic(t *testing.T) {
	cause := stderrors.New("selector failed")
	tests := []struct {
		name      string
		recovered any
		wantCause string
	}{
		{"error value", cause, "selector failed"},
		{"string value", "index out of range", "index out of range"},
		{"prsh error", New("E102"), "E102: Store accessed while reducing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromPanic(tt.recovered, "E011")
			if err.Code != "E011" {
				t.Errorf("Code = %q, want E011", err.Code)
			}
			if err.Wrapped.Error() != tt.wantCause {
				t.Errorf("cause = %q, want %q", err.Wrapped.Error(), tt.wantCause)
			}
		})
	}

	if !stderrors.Is(FromPanic(cause, "E011"), cause) {
		t.Error("panic error values should stay reachable through errors.Is")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E101").WithSuggestion("Dispatch from a listener instead").Wrap(stderrors.New("nested"))
	out := err.Format()

	for _, want := range []string{
		"ERROR E101: Reducers may not dispatch actions",
		"A reducer called Dispatch",
		"Cause: nested",
		"Hint: Dispatch from a listener instead",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}

	if got := err.FormatCompact(); got != "E101: Reducers may not dispatch actions" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintError(&buf, fmt.Errorf("serve: %w", New("E300")))
	if !strings.Contains(buf.String(), "ERROR E300: Server failed") {
		t.Errorf("PrintError output = %q", buf.String())
	}

	buf.Reset()
	PrintError(&buf, stderrors.New("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("PrintError output = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 10)
	for _, line := range lines {
		if len(line) > 10 {
			t.Errorf("line %q longer than width", line)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText lost words: %v", lines)
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should wrap to nil")
	}
}

func TestRegister(t *testing.T) {
	Register("E999", ErrorTemplate{Category: CategoryCLI, Message: "custom"})
	defer delete(registry, "E999")

	if got := New("E999"); got.Message != "custom" || got.Category != CategoryCLI {
		t.Errorf("New(E999) = %+v", got)
	}
	if _, ok := Lookup("E999"); !ok {
		t.Error("Lookup should find registered code")
	}
}
