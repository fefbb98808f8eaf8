package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "message only",
			err:      &Error{Code: EINVALID, Message: "invalid input"},
			expected: "invalid input",
		},
		{
			name:     "with operation",
			err:      &Error{Code: EINVALID, Op: "address.create", Message: "invalid input"},
			expected: "address.create: invalid input",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    EUNEXPECTED,
				Op:      "address.create",
				Message: "address service failed",
				Err:     errors.New("connection refused"),
			},
			expected: "address.create: address service failed: connection refused",
		},
		{
			name: "wrapped error without op",
			err: &Error{
				Code:    EUNEXPECTED,
				Message: "address service failed",
				Err:     errors.New("connection refused"),
			},
			expected: "address service failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := Unexpected(underlying, "address.remove", "wrapped")

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find underlying error")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "domain error", err: &Error{Code: EUNAUTHORIZED, Message: "test"}, expected: EUNAUTHORIZED},
		{name: "wrapped domain error", err: fmt.Errorf("wrapped: %w", &Error{Code: EUNEXPECTED}), expected: EUNEXPECTED},
		{name: "field error", err: NewFieldError("address.validate", "name", "too short"), expected: EINVALID},
		{name: "non-domain error", err: errors.New("some error"), expected: EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "domain error with message", err: &Error{Code: EINVALID, Message: "address has no id"}, expected: "address has no id"},
		{name: "field error", err: NewFieldError("", "pincode", "Pincode must be exactly 6 digits."), expected: "Pincode must be exactly 6 digits."},
		{name: "internal error hides message", err: &Error{Code: EINTERNAL, Message: "secret leaked"}, expected: "An internal error occurred. Please try again later."},
		{name: "non-domain error returns generic message", err: errors.New("detail"), expected: "An internal error occurred. Please try again later."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.expected {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorOp(t *testing.T) {
	if got := ErrorOp(&Error{Op: "address.update"}); got != "address.update" {
		t.Errorf("ErrorOp() = %q, want %q", got, "address.update")
	}
	if got := ErrorOp(NewFieldError("address.validate", "city", "bad")); got != "address.validate" {
		t.Errorf("ErrorOp() = %q, want %q", got, "address.validate")
	}
	if got := ErrorOp(errors.New("plain")); got != "" {
		t.Errorf("ErrorOp() = %q, want empty", got)
	}
}

func TestWrapError(t *testing.T) {
	t.Run("wraps non-nil error", func(t *testing.T) {
		underlying := errors.New("dial tcp")
		err := WrapError(underlying, EUNEXPECTED, "address.load", "failed to load")

		if !IsCode(err, EUNEXPECTED) {
			t.Errorf("code = %q, want %q", ErrorCode(err), EUNEXPECTED)
		}
		if !errors.Is(err, underlying) {
			t.Error("should wrap underlying error")
		}
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		if err := WrapError(nil, EINTERNAL, "test", "test"); err != nil {
			t.Errorf("WrapError(nil) should return nil, got %v", err)
		}
	})
}

func TestFieldError(t *testing.T) {
	err := NewFieldError("address.validate", "phone", "Phone number must be 10 digits.")

	if !IsFieldError(err) {
		t.Fatal("NewFieldError should return *FieldError")
	}
	if FieldOf(err) != "phone" {
		t.Errorf("FieldOf() = %q, want %q", FieldOf(err), "phone")
	}
	if FieldOf(errors.New("x")) != "" {
		t.Error("FieldOf should be empty for non-field errors")
	}

	expected := "address.validate: phone: Phone number must be 10 digits."
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestConvenienceFunctions(t *testing.T) {
	cases := map[string]struct {
		err  error
		code string
	}{
		"NotFound":     {NotFound("address.update", "address", "abc"), ENOTFOUND},
		"Unauthorized": {Unauthorized("address.create", "log in"), EUNAUTHORIZED},
		"Invalid":      {Invalid("address.update", "no id"), EINVALID},
		"Conflict":     {Conflict("form.submit", "in flight"), ECONFLICT},
		"Unexpected":   {Unexpected(nil, "address.remove", "failed"), EUNEXPECTED},
		"Internal":     {Internal(nil, "x", "y"), EINTERNAL},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := ErrorCode(tc.err); got != tc.code {
				t.Errorf("code = %q, want %q", got, tc.code)
			}
		})
	}
}
