package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"validation", ErrValidation},
		{"empty update", ErrEmptyUpdate},
		{"not found", ErrNotFound},
		{"store write", ErrStoreWrite},
		{"store read", ErrStoreRead},
		{"configuration", ErrConfiguration},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !stdErrors.Is(tc.err, tc.err) {
				t.Fatalf("expected error to match itself: %v", tc.err)
			}
			wrapped := fmt.Errorf("context: %w", tc.err)
			if !stdErrors.Is(wrapped, tc.err) {
				t.Fatalf("expected wrapped error to match %v", tc.err)
			}
		})
	}
}

func TestValidationErrorMatching(t *testing.T) {
	err := error(NewValidationError(FieldError{Field: "price", Message: "must be greater than 0"}))
	if !stdErrors.Is(err, ErrValidation) {
		t.Fatal("expected validation error to match ErrValidation")
	}
	if stdErrors.Is(err, ErrEmptyUpdate) {
		t.Fatal("field error must not match ErrEmptyUpdate")
	}
	if !strings.Contains(err.Error(), "price: must be greater than 0") {
		t.Fatalf("unexpected message %q", err.Error())
	}

	var verr *ValidationError
	if !stdErrors.As(fmt.Errorf("wrap: %w", err), &verr) || len(verr.Fields) != 1 {
		t.Fatalf("expected to unwrap ValidationError with one field, got %+v", verr)
	}
}

func TestEmptyUpdateErrorMatchesBoth(t *testing.T) {
	err := error(NewEmptyUpdateError())
	if !stdErrors.Is(err, ErrEmptyUpdate) {
		t.Fatal("expected ErrEmptyUpdate match")
	}
	if !stdErrors.Is(err, ErrValidation) {
		t.Fatal("expected ErrValidation match")
	}
	if err.Error() != ErrEmptyUpdate.Error() {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestConfigurationError(t *testing.T) {
	err := error(&ConfigurationError{Missing: []string{"XATA_API_KEY", "XATA_DB_NAME"}})
	if !stdErrors.Is(err, ErrConfiguration) {
		t.Fatal("expected ErrConfiguration match")
	}
	if !strings.Contains(err.Error(), "XATA_API_KEY, XATA_DB_NAME") {
		t.Fatalf("unexpected message %q", err.Error())
	}

	err = &ConfigurationError{Reason: "unknown store driver \"redis\""}
	if !strings.Contains(err.Error(), "unknown store driver") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
