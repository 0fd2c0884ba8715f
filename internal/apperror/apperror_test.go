package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelsSurviveWrapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", NotFound("user", "a@b.com"), ErrNotFound},
		{"validation", ValidationFailed("email", "email is required"), ErrValidation},
		{"conflict", Conflict("account already exists"), ErrConflict},
		{"unauthorized", Unauthorized("invalid credentials"), ErrUnauthorized},
		{"forbidden", Forbidden("email mismatch"), ErrForbidden},
		{"unavailable", Unavailable("summary service down"), ErrUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Services wrap errors with fmt.Errorf("...: %w", err) — the
			// sentinel must still be detectable through the chain.
			wrapped := fmt.Errorf("placing order: %w", tc.err)
			if !errors.Is(wrapped, tc.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false, want true", wrapped)
			}

			var appErr *AppError
			if !errors.As(wrapped, &appErr) {
				t.Fatalf("errors.As failed to extract *AppError from %v", wrapped)
			}
			if appErr.Message == "" {
				t.Error("AppError.Message is empty")
			}
		})
	}
}

func TestValidationFailedCarriesField(t *testing.T) {
	err := ValidationFailed("quantity", "quantity must be at least 1")
	if err.Field != "quantity" {
		t.Errorf("Field = %q, want %q", err.Field, "quantity")
	}
	if err.Error() != "quantity must be at least 1" {
		t.Errorf("Error() = %q", err.Error())
	}
}
