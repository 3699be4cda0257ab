package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/aitk/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "manifest_missing",
			code:    errors.ErrManifestNotFound,
			message: "manifest not found",
			wantStr: "[MANIFEST_NOT_FOUND] manifest not found",
		},
		{
			name:    "invalid_input_error",
			code:    errors.ErrInvalidInput,
			message: "invalid configuration",
			wantStr: "[INVALID_INPUT] invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}
			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}
			if err.Details == nil {
				t.Error("New() details should be initialized")
			}
			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrSourceNotFound, "source not found: %s", "/toolkit/skills/x")
	if err.Message != "source not found: /toolkit/skills/x" {
		t.Errorf("Newf() message = %q", err.Message)
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("operation not permitted")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrLinkCreate, "failed to create link")

		if err.Code != errors.ErrLinkCreate {
			t.Errorf("Wrap() code = %v, want %v", err.Code, errors.ErrLinkCreate)
		}
		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}

		wantStr := "[LINK_CREATE] failed to create link: operation not permitted"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		err := errors.Wrap(nil, errors.ErrInternal, "internal error")
		if err != nil {
			t.Error("Wrap(nil) should return nil")
		}
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrLinkRemove, "cannot remove").
		WithDetail("target", "/home/u/.claude/skills/x").
		WithDetail("type", "junction")

	if err.Details["target"] != "/home/u/.claude/skills/x" {
		t.Errorf("WithDetail() target = %v", err.Details["target"])
	}
	if got := errors.GetErrorDetails(err)["type"]; got != "junction" {
		t.Errorf("GetErrorDetails() type = %v", got)
	}
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrNotFound, "error 1")
	err2 := errors.New(errors.ErrNotFound, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	if !err1.Is(err2) {
		t.Error("Is() should return true for same code")
	}
	if err1.Is(err3) {
		t.Error("Is() should return false for different codes")
	}
	if !stderrors.Is(err1, err2) {
		t.Error("errors.Is() should work with Error")
	}
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{"matching_code", errors.New(errors.ErrNotFound, "not found"), errors.ErrNotFound, true},
		{"different_code", errors.New(errors.ErrNotFound, "not found"), errors.ErrInternal, false},
		{"wrapped_error", errors.Wrap(stderrors.New("base"), errors.ErrFileAccess, "denied"), errors.ErrFileAccess, true},
		{"standard_error", stderrors.New("standard error"), errors.ErrNotFound, false},
		{"nil_error", nil, errors.ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := errors.GetErrorCode(errors.New(errors.ErrLock, "busy")); got != errors.ErrLock {
		t.Errorf("GetErrorCode() = %v", got)
	}
	if got := errors.GetErrorCode(stderrors.New("plain")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode() = %v", got)
	}
	if got := errors.GetErrorCode(nil); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode() = %v", got)
	}
}

func TestIsFatal(t *testing.T) {
	fatal := []errors.ErrorCode{errors.ErrNoLinkMechanism, errors.ErrManifestNotFound, errors.ErrLock}
	for _, code := range fatal {
		if !errors.IsFatal(errors.New(code, "x")) {
			t.Errorf("IsFatal(%s) = false, want true", code)
		}
	}

	recoverable := []errors.ErrorCode{errors.ErrSourceNotFound, errors.ErrLinkCreate, errors.ErrSettingsParse, errors.ErrDetachSource}
	for _, code := range recoverable {
		if errors.IsFatal(errors.New(code, "x")) {
			t.Errorf("IsFatal(%s) = true, want false", code)
		}
	}
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("root cause")
	fileErr := errors.Wrap(rootCause, errors.ErrFileAccess, "cannot read file")
	configErr := errors.Wrap(fileErr, errors.ErrConfigLoad, "failed to load config")

	if !errors.IsErrorCode(configErr, errors.ErrConfigLoad) {
		t.Error("Top level should have ErrConfigLoad code")
	}

	var middle *errors.Error
	if stderrors.As(configErr.Unwrap(), &middle) {
		if middle.Code != errors.ErrFileAccess {
			t.Error("Middle error should have ErrFileAccess code")
		}
	} else {
		t.Error("Middle error should be an *errors.Error")
	}

	if !stderrors.Is(configErr, rootCause) {
		t.Error("Should find root cause with errors.Is")
	}
}

func TestMessage(t *testing.T) {
	plain := stderrors.New("boom")
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", errors.New(errors.ErrManifestNotFound, "Manifest not found: /x"), "Manifest not found: /x"},
		{"wrapped", errors.Wrap(plain, errors.ErrLinkCreate, "cannot link"), "cannot link: boom"},
		{"plain", plain, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Message(tt.err); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}
