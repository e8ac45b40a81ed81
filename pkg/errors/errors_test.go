package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("database connection failed")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, wrapped.Code)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	unwrapped := errors.Unwrap(appErr)
	if unwrapped != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestAdmissionConstructors(t *testing.T) {
	tests := []struct {
		name       string
		appErr     *AppError
		wantCode   string
		wantStatus int
	}{
		{"missing document", MissingDocument(), CodeMissingDocument, http.StatusUnprocessableEntity},
		{"invalid birth date", InvalidBirthDate("not-a-date"), CodeInvalidBirthDate, http.StatusUnprocessableEntity},
		{"underage guest", UnderageGuest(), CodeUnderageGuest, http.StatusUnprocessableEntity},
		{"invalid room", InvalidRoom("xyz"), CodeInvalidRoom, http.StatusBadRequest},
		{"room not found", RoomNotFound("665f1c2e9b3f4a0012345678"), CodeRoomNotFound, http.StatusNotFound},
		{"invalid date range", InvalidDateRange("end date must be after start date"), CodeInvalidDateRange, http.StatusUnprocessableEntity},
		{"nights out of range", NightsOutOfRange(1, 2, 10), CodeNightsOutOfRange, http.StatusUnprocessableEntity},
		{"dates unavailable", DatesUnavailable(), CodeDatesUnavailable, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.appErr.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, tt.appErr.Code)
			}
			if tt.appErr.StatusCode() != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, tt.appErr.StatusCode())
			}
		})
	}
}

func TestNightsOutOfRange_Details(t *testing.T) {
	err := NightsOutOfRange(12, 2, 10)

	if err.Details["nights"] != 12 {
		t.Errorf("expected nights detail 12, got %v", err.Details["nights"])
	}
	if err.Details["min_nights"] != 2 || err.Details["max_nights"] != 10 {
		t.Errorf("expected range details 2-10, got %v-%v", err.Details["min_nights"], err.Details["max_nights"])
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Forbidden("not allowed")
	if AsAppError(appErr) != appErr {
		t.Errorf("AsAppError should return the same AppError")
	}

	plain := errors.New("boom")
	converted := AsAppError(plain)
	if converted.Code != CodeInternal {
		t.Errorf("expected plain errors to convert to %s, got %s", CodeInternal, converted.Code)
	}
	if converted.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", converted.HTTPStatus)
	}
}
