package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDomainErrorError(t *testing.T) {
	err := ErrBackendUnavailable("connection refused")
	if !strings.Contains(err.Error(), "backend") {
		t.Errorf("expected category in message, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "BACKEND_UNAVAILABLE") {
		t.Errorf("expected code in message, got %q", err.Error())
	}

	wrapped := ErrDocument("PARSE_FAILED", "bad section").WithCause(errors.New("eof"))
	if !strings.Contains(wrapped.Error(), "eof") {
		t.Errorf("expected cause in message, got %q", wrapped.Error())
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := ErrBackendUnavailable("transport").WithCause(cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"backend unavailable", ErrBackendUnavailable("down"), true},
		{"malformed output", ErrMalformedOutput("no json"), true},
		{"timeout", ErrTimeout("deadline"), true},
		{"validation", ErrValidation("BAD_KIND", "unknown kind"), false},
		{"document", ErrDocument("NOT_FOUND", "missing"), false},
		{"persistence", ErrPersistence("WRITE_FAILED", "disk"), false},
		{"plain error", errors.New("boom"), false},
		{"wrapped domain error", fmt.Errorf("ctx: %w", ErrTimeout("slow")), true},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCategory(t *testing.T) {
	if got := GetCategory(ErrValidation("X", "y")); got != ErrCatValidation {
		t.Errorf("got %v, want validation", got)
	}
	if got := GetCategory(errors.New("plain")); got != ErrCatInternal {
		t.Errorf("got %v, want internal for plain error", got)
	}
	if !IsCategory(ErrTimeout("t"), ErrCatTimeout) {
		t.Error("IsCategory failed for timeout")
	}
}

func TestDomainErrorIs(t *testing.T) {
	a := ErrMalformedOutput("first")
	b := ErrMalformedOutput("second")
	if !errors.Is(a, b) {
		t.Error("same category+code should match")
	}
	if errors.Is(a, ErrTimeout("t")) {
		t.Error("different categories should not match")
	}
}

func TestWithDetail(t *testing.T) {
	err := ErrBackendUnavailable("down").
		WithDetail("endpoint", "http://localhost:1234").
		WithDetail("attempt", 2)
	if err.Details["endpoint"] != "http://localhost:1234" {
		t.Error("detail not recorded")
	}
	if err.Details["attempt"] != 2 {
		t.Error("second detail not recorded")
	}
}
