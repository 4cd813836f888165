package errors

import (
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
			name:    "misuse error",
			code:    "W001",
			wantMsg: "State update introduces an undeclared field",
			wantCat: CategoryMisuse,
		},
		{
			name:    "lifecycle error",
			code:    "W002",
			wantMsg: "WillStart hook failed",
			wantCat: CategoryLifecycle,
		},
		{
			name:    "unknown error code",
			code:    "W999",
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

func TestIsMatchesCode(t *testing.T) {
	sentinel := New("W001")
	err := New("W001").WithDetail("field x")

	if !stderrors.Is(err, sentinel) {
		t.Error("errors with the same code should match")
	}
	if stderrors.Is(New("W002"), sentinel) {
		t.Error("errors with different codes should not match")
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := New("W002").Wrap(cause)

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause should be reachable")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "W004") != nil {
		t.Error("FromError(nil) should be nil")
	}
	e := New("W003")
	if FromError(e, "W004") != e {
		t.Error("FromError should pass *Error through")
	}
	if got := FromError(stderrors.New("x"), "W004"); got.Code != "W004" {
		t.Errorf("Code = %q, want W004", got.Code)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("W001").WithDetail("field count").WithSuggestion("declare it").Format()
	for _, want := range []string{"ERROR W001:", "field count", "Hint: declare it"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in %q", want, out)
		}
	}
}
