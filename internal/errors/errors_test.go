package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("field", "Categry")

	if got, want := err.Error(), "field 'Categry' not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrFieldNotFound) {
		t.Error("field NotFoundError should match ErrFieldNotFound")
	}
	if !IsUserFacing(err) {
		t.Error("NotFoundError should be user facing")
	}
	if GetSeverity(err) != SeverityWarning {
		t.Errorf("GetSeverity() = %v, want %v", GetSeverity(err), SeverityWarning)
	}

	other := NewNotFoundError("node", "7")
	if errors.Is(other, ErrFieldNotFound) {
		t.Error("node NotFoundError should not match ErrFieldNotFound")
	}
}

func TestPreconditionError(t *testing.T) {
	err := NewPreconditionError("ExpandAll", ErrNotAttached)

	if got, want := err.Error(), "ExpandAll: precondition failed: no source attached"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrNotAttached) {
		t.Error("PreconditionError should match its cause")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	var pre *PreconditionError
	if !errors.As(wrapped, &pre) {
		t.Fatal("errors.As should find the PreconditionError")
	}
	if pre.Operation != "ExpandAll" {
		t.Errorf("Operation = %q, want %q", pre.Operation, "ExpandAll")
	}
}

func TestAccessorError(t *testing.T) {
	cause := New("boom")
	err := NewAccessorError("Score", cause).WithRowIndex(3)

	if got, want := err.Error(), "accessor error [field=Score, row=3]: field accessor failed: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrAccessorFailed) {
		t.Error("AccessorError should match ErrAccessorFailed")
	}
	if !errors.Is(err, cause) {
		t.Error("AccessorError should match its cause")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("must be asc, desc or none").WithField("grouping.sort").WithValue("up")

	want := "validation error [grouping.sort]: must be asc, desc or none (got: up)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ValidationError should match ErrInvalidInput")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	err := Wrapf(ErrHeaderEdit, "row %d", 4)
	if !errors.Is(err, ErrHeaderEdit) {
		t.Error("Wrapf should preserve the cause")
	}
	if got, want := err.Error(), "row 4: group header rows cannot be edited"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsUserFacing_PlainError(t *testing.T) {
	if IsUserFacing(New("plain")) {
		t.Error("plain errors are not user facing")
	}
	if IsUserFacing(nil) {
		t.Error("nil is not user facing")
	}
	if GetSeverity(New("plain")) != SeverityError {
		t.Error("plain errors default to SeverityError")
	}
}
