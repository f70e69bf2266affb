package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := Validation("file type %q not allowed", ".txt")
	if KindOf(err) != KindValidation {
		t.Fatalf("expected validation kind, got %v", KindOf(err))
	}

	wrapped := fmt.Errorf("handling upload: %w", err)
	if !IsKind(wrapped, KindValidation) {
		t.Fatalf("kind should survive wrapping")
	}

	if KindOf(errors.New("plain")) != 0 {
		t.Fatalf("plain errors have no kind")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream(cause, "embedding request failed")
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable via errors.Is")
	}
	if IsKind(err, KindValidation) {
		t.Fatalf("upstream error must not match validation kind")
	}
}

func TestUserMessage(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	err := Upstream(cause, "answer generation failed")
	if got := UserMessage(err, "internal error"); got != "answer generation failed" {
		t.Fatalf("unexpected user message %q", got)
	}
	if got := UserMessage(cause, "internal error"); got != "internal error" {
		t.Fatalf("fallback not applied, got %q", got)
	}
}
