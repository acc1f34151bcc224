package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCode(t *testing.T) {
	meta := MetadataFor(CodeValidation)
	if meta.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected 400 but got %d", meta.HTTPStatus)
	}
	if !meta.DetailsAllowed {
		t.Fatalf("expected validation details to be public")
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("NOT_A_CODE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback but got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeDependency, cause, "calling gateway")

	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to survive errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	typed := New(CodeStateConflict, "submission already in flight")
	wrapped := fmt.Errorf("outer: %w", typed)

	got := As(wrapped)
	if got == nil || got.Code() != CodeStateConflict {
		t.Fatalf("expected typed error, got %v", got)
	}
}

func TestAsReturnsNilForPlainError(t *testing.T) {
	if got := As(errors.New("plain")); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
