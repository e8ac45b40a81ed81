package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeInvalidInput = "INVALID_INPUT"

	// Booking admission codes, surfaced in the order the admission
	// policy evaluates them so the first failure is the most useful one.
	CodeMissingDocument  = "MISSING_DOCUMENT"
	CodeInvalidBirthDate = "INVALID_BIRTH_DATE"
	CodeUnderageGuest    = "UNDERAGE_GUEST"
	CodeInvalidRoom      = "INVALID_ROOM"
	CodeRoomNotFound     = "ROOM_NOT_FOUND"
	CodeInvalidDateRange = "INVALID_DATE_RANGE"
	CodeNightsOutOfRange = "NIGHTS_OUT_OF_RANGE"
	CodeDatesUnavailable = "DATES_UNAVAILABLE"
)

type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
	return data
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NotFoundWithID(resource, id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MissingDocument() *AppError {
	return &AppError{
		Code:       CodeMissingDocument,
		Message:    "An identity document is required to create a booking",
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

func InvalidBirthDate(value string) *AppError {
	return &AppError{
		Code:       CodeInvalidBirthDate,
		Message:    "Date of birth is missing or not a valid date",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"date_of_birth": value,
		},
	}
}

func UnderageGuest() *AppError {
	return &AppError{
		Code:       CodeUnderageGuest,
		Message:    "The primary guest must be at least 18 years old",
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

func InvalidRoom(id string) *AppError {
	return &AppError{
		Code:       CodeInvalidRoom,
		Message:    "Invalid room identifier",
		HTTPStatus: http.StatusBadRequest,
		Details: map[string]any{
			"room_id": id,
		},
	}
}

func RoomNotFound(id string) *AppError {
	return &AppError{
		Code:       CodeRoomNotFound,
		Message:    "Room not found",
		HTTPStatus: http.StatusNotFound,
		Details: map[string]any{
			"room_id": id,
		},
	}
}

func InvalidDateRange(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidDateRange,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

func NightsOutOfRange(nights, minNights, maxNights int) *AppError {
	return &AppError{
		Code:       CodeNightsOutOfRange,
		Message:    fmt.Sprintf("Stay of %d night(s) is outside the allowed range of %d-%d", nights, minNights, maxNights),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"nights":     nights,
			"min_nights": minNights,
			"max_nights": maxNights,
		},
	}
}

func DatesUnavailable() *AppError {
	return &AppError{
		Code:       CodeDatesUnavailable,
		Message:    "The room is not available for the requested dates",
		HTTPStatus: http.StatusConflict,
	}
}

func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}
