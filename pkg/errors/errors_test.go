package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeEncoding, "module %d does not fit", 3)

	if err.Code != ErrCodeEncoding {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeEncoding)
	}

	if err.Message != "module 3 does not fit" {
		t.Errorf("Message = %v, want %v", err.Message, "module 3 does not fit")
	}

	expected := "ENCODING_ERROR: module 3 does not fit"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("solver crashed")
	err := Wrap(ErrCodeBackend, cause, "check failed")

	if err.Code != ErrCodeBackend {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeBackend)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeParse, "bad"), ErrCodeParse, true},
		{"non-matching code", New(ErrCodeParse, "bad"), ErrCodeTimeout, false},
		{"outer code wins", Wrap(ErrCodeBackend, New(ErrCodeParse, "inner"), "outer"), ErrCodeBackend, true},
		{"non-Error type", errors.New("plain"), ErrCodeParse, false},
		{"nil error", nil, ErrCodeParse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeInfeasible, "none"), ErrCodeInfeasible},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "friendly message")); got != "friendly message" {
		t.Errorf("UserMessage() = %q, want %q", got, "friendly message")
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %q, want %q", got, "plain error")
	}
}

func TestParse(t *testing.T) {
	t.Run("with line", func(t *testing.T) {
		err := Parse("ins-1.txt", 4, "expected %d fields, got %d", 2, 3)
		if err.Code != ErrCodeParse {
			t.Errorf("Code = %v, want %v", err.Code, ErrCodeParse)
		}
		want := "ins-1.txt:4: expected 2 fields, got 3"
		if UserMessage(err) != want {
			t.Errorf("UserMessage() = %q, want %q", UserMessage(err), want)
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatal("errors.As(*ParseError) = false")
		}
		if pe.Line != 4 || pe.Code() != ErrCodeParse {
			t.Errorf("ParseError = %+v", pe)
		}
	})

	t.Run("without line", func(t *testing.T) {
		err := Parse("<stdin>", 0, "empty input")
		if UserMessage(err) != "<stdin>: empty input" {
			t.Errorf("UserMessage() = %q", UserMessage(err))
		}
	})
}
