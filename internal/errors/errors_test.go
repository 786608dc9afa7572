package errors_test

import (
	"errors"
	"fmt"
	"testing"

	cqerrors "github.com/chazuruo/chaosq/internal/errors"
)

// TestBaseErrors verifies that all base error types have correct messages.
func TestBaseErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ErrNotFound", cqerrors.ErrNotFound, "not found"},
		{"ErrInvalid", cqerrors.ErrInvalid, "invalid"},
		{"ErrUnauthorized", cqerrors.ErrUnauthorized, "unauthorized"},
		{"ErrTransport", cqerrors.ErrTransport, "transport error"},
		{"ErrServer", cqerrors.ErrServer, "server error"},
		{"ErrCanceled", cqerrors.ErrCanceled, "canceled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestAPIError verifies APIError formatting and unwrapping.
func TestAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  *cqerrors.APIError
		want string
	}{
		{
			name: "with status and message",
			err: &cqerrors.APIError{
				Op: "list experiments", Endpoint: "/api/experiments", Status: 500,
				Message: "etcd unavailable", Err: cqerrors.ErrServer,
			},
			want: "list experiments (/api/experiments, HTTP 500): server error: etcd unavailable",
		},
		{
			name: "without status",
			err:  &cqerrors.APIError{Op: "list workflows", Endpoint: "/api/workflows", Err: cqerrors.ErrTransport},
			want: "list workflows (/api/workflows): transport error",
		},
		{
			name: "wrapped custom error",
			err:  &cqerrors.APIError{Op: "pause experiment", Endpoint: "/api/experiments/pause/x", Status: 404, Err: fmt.Errorf("custom")},
			want: "pause experiment (/api/experiments/pause/x, HTTP 404): custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("Unwrap returns original error", func(t *testing.T) {
		wrapped := &cqerrors.APIError{Op: "test", Err: cqerrors.ErrNotFound}
		if !errors.Is(wrapped, cqerrors.ErrNotFound) {
			t.Error("Unwrap() did not return the original error for errors.Is")
		}
	})
}

// TestConfigError verifies ConfigError formatting and unwrapping.
func TestConfigError(t *testing.T) {
	tests := []struct {
		name string
		err  *cqerrors.ConfigError
		want string
	}{
		{
			name: "with path",
			err:  &cqerrors.ConfigError{Path: "~/.config/chaosq/config.toml", Err: cqerrors.ErrInvalid},
			want: "config ~/.config/chaosq/config.toml: invalid",
		},
		{
			name: "without path",
			err:  &cqerrors.ConfigError{Err: cqerrors.ErrNotFound},
			want: "config: not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestForStatus verifies the HTTP status to sentinel mapping.
func TestForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{200, nil},
		{204, nil},
		{400, cqerrors.ErrInvalid},
		{401, cqerrors.ErrUnauthorized},
		{403, cqerrors.ErrUnauthorized},
		{404, cqerrors.ErrNotFound},
		{409, cqerrors.ErrInvalid},
		{500, cqerrors.ErrServer},
		{503, cqerrors.ErrServer},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			if got := cqerrors.ForStatus(tt.status); got != tt.want {
				t.Errorf("ForStatus(%d) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

// TestWrap verifies the Wrap helper function.
func TestWrap(t *testing.T) {
	original := cqerrors.ErrNotFound
	wrapped := cqerrors.Wrap(original, "search")

	if got := wrapped.Error(); got != "search: not found" {
		t.Errorf("Error() = %q, want 'search: not found'", got)
	}

	if !errors.Is(cqerrors.Wrap(wrapped, "cycle"), original) {
		t.Error("Double wrap did not preserve the original error")
	}

	if cqerrors.Wrap(nil, "noop") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

// TestIsHelpers verifies all Is<TYPE>() helper functions.
func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name    string
		baseErr error
		isFunc  func(error) bool
	}{
		{"IsNotFound", cqerrors.ErrNotFound, cqerrors.IsNotFound},
		{"IsInvalid", cqerrors.ErrInvalid, cqerrors.IsInvalid},
		{"IsUnauthorized", cqerrors.ErrUnauthorized, cqerrors.IsUnauthorized},
		{"IsTransport", cqerrors.ErrTransport, cqerrors.IsTransport},
		{"IsServer", cqerrors.ErrServer, cqerrors.IsServer},
		{"IsCanceled", cqerrors.ErrCanceled, cqerrors.IsCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.isFunc(tt.baseErr) {
				t.Errorf("%s(%v) = false, want true", tt.name, tt.baseErr)
			}
			wrapped := &cqerrors.APIError{Op: "get", Err: tt.baseErr}
			if !tt.isFunc(wrapped) {
				t.Errorf("%s(wrapped APIError) = false, want true", tt.name)
			}
		})
	}

	if cqerrors.IsNotFound(cqerrors.ErrInvalid) {
		t.Error("IsNotFound(ErrInvalid) = true, want false")
	}
}

// TestAsHelpers verifies the As<TYPE>() helper functions.
func TestAsHelpers(t *testing.T) {
	t.Run("AsAPIError with wrapped", func(t *testing.T) {
		wrapped := cqerrors.Wrap(&cqerrors.APIError{Op: "list archives", Status: 502, Err: cqerrors.ErrServer}, "search")
		result, ok := cqerrors.AsAPIError(wrapped)
		if !ok {
			t.Fatal("AsAPIError(wrapped) = false, want true")
		}
		if result.Status != 502 {
			t.Errorf("AsAPIError returned wrong Status: got %d, want 502", result.Status)
		}
	})

	t.Run("AsAPIError with wrong type", func(t *testing.T) {
		if _, ok := cqerrors.AsAPIError(cqerrors.ErrNotFound); ok {
			t.Error("AsAPIError(ErrNotFound) = true, want false")
		}
	})

	t.Run("AsConfigError", func(t *testing.T) {
		ce := &cqerrors.ConfigError{Path: "/path/to/config", Err: cqerrors.ErrInvalid}
		result, ok := cqerrors.AsConfigError(ce)
		if !ok {
			t.Fatal("AsConfigError(valid) = false, want true")
		}
		if result.Path != "/path/to/config" {
			t.Errorf("AsConfigError returned wrong Path: got %q", result.Path)
		}
	})
}
