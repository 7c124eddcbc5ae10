package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name:     "error without details",
			err:      NewDomainError("CS-TEST-1000", "test message"),
			expected: "[CS-TEST-1000] test message",
		},
		{
			name:     "error with details",
			err:      NewDomainError("CS-TEST-1001", "test message").WithDetails("extra info"),
			expected: "[CS-TEST-1001] test message: extra info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDomainError_Is(t *testing.T) {
	withCause := ErrNetwork.WithCause(fmt.Errorf("dial tcp: connection refused"))

	if !errors.Is(withCause, ErrNetwork) {
		t.Error("errors.Is should match on code regardless of cause")
	}
	if errors.Is(withCause, ErrServerRejection) {
		t.Error("errors.Is should not match a different code")
	}
	if errors.Is(ErrNetwork, fmt.Errorf("some error")) {
		t.Error("errors.Is should return false for non-DomainError")
	}
}

func TestDomainError_WithCause(t *testing.T) {
	cause := fmt.Errorf("root cause")
	wrapped := ErrStorage.WithCause(cause)

	if ErrStorage.Cause != nil {
		t.Error("WithCause should not modify original error")
	}
	if errors.Unwrap(wrapped) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(wrapped), cause)
	}
	if wrapped.Code != ErrStorage.Code {
		t.Errorf("Code = %q, want %q", wrapped.Code, ErrStorage.Code)
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"domain error", ErrValidation, "CS-LOGIN-4001"},
		{"wrapped domain error", fmt.Errorf("submit: %w", ErrProtocolInconsistency), "CS-LOGIN-5020"},
		{"regular error", fmt.Errorf("regular error"), ""},
		{"nil error", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsDomainError(t *testing.T) {
	if !IsDomainError(ErrSubmissionInProgress, "") {
		t.Error("IsDomainError with empty code should match any DomainError")
	}
	if IsDomainError(ErrSubmissionInProgress, "CS-LOGIN-4001") {
		t.Error("IsDomainError should return false for non-matching code")
	}
	if IsDomainError(fmt.Errorf("plain"), "") {
		t.Error("IsDomainError should return false for non-DomainError")
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err  *DomainError
		code string
	}{
		{ErrValidation, "CS-LOGIN-4001"},
		{ErrServerRejection, "CS-LOGIN-4010"},
		{ErrSubmissionInProgress, "CS-LOGIN-4090"},
		{ErrProtocolInconsistency, "CS-LOGIN-5020"},
		{ErrNetwork, "CS-LOGIN-5030"},
		{ErrTokenNotFound, "CS-STORE-4040"},
		{ErrStorage, "CS-STORE-5001"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Error code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Message == "" {
				t.Error("Error message should not be empty")
			}
		})
	}
}

func TestServerMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "rejection with message",
			err:  ErrServerRejection.WithCause(&ResponseError{StatusCode: 401, Message: "Invalid credentials"}),
			want: "Invalid credentials",
		},
		{
			name: "rejection without body",
			err:  ErrServerRejection.WithCause(&ResponseError{StatusCode: 502}),
			want: "",
		},
		{
			name: "network error",
			err:  ErrNetwork.WithCause(fmt.Errorf("connection refused")),
			want: "",
		},
		{
			name: "wrapped twice",
			err:  fmt.Errorf("login: %w", ErrServerRejection.WithCause(&ResponseError{StatusCode: 400, Message: "bad"})),
			want: "bad",
		},
		{name: "nil", err: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ServerMessage(tt.err); got != tt.want {
				t.Errorf("ServerMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCredentials_Complete(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  bool
	}{
		{"both set", Credentials{Email: "a@b.c", Password: "pw"}, true},
		{"empty email", Credentials{Password: "pw"}, false},
		{"empty password", Credentials{Email: "a@b.c"}, false},
		{"both empty", Credentials{}, false},
		{"whitespace counts", Credentials{Email: " ", Password: " "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.creds.Complete(); got != tt.want {
				t.Errorf("Complete() = %v, want %v", got, tt.want)
			}
		})
	}
}
