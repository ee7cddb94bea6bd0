// Package apperrors defines the service error taxonomy. Every error carries a
// stable machine-readable code and the HTTP status it maps to; the client
// message is safe to return verbatim, the wrapped cause is not.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf extracts the machine code from err, or "INTERNAL" when err is not an
// *Error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "INTERNAL"
}

// StatusOf extracts the HTTP status from err, defaulting to 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// Validation
func PreferredTimeRequired() *Error {
	return &Error{Code: "PREFERRED_TIME_REQUIRED", Status: http.StatusBadRequest, Message: "preferredTime is required"}
}

func PreferredDateRequired() *Error {
	return &Error{Code: "PREFERRED_DATE_REQUIRED", Status: http.StatusBadRequest, Message: "preferredDate is required"}
}

// Conflict
func SlotAlreadyBooked() *Error {
	return &Error{Code: "SLOT_ALREADY_BOOKED", Status: http.StatusConflict, Message: "this slot is already booked"}
}

// Not found
func NotFound(what string) *Error {
	return &Error{Code: "NOT_FOUND", Status: http.StatusNotFound, Message: what + " not found"}
}

// State
func InvalidAppointmentStatus(raw string) *Error {
	return &Error{Code: "INVALID_APPOINTMENT_STATUS", Status: http.StatusBadRequest, Message: fmt.Sprintf("invalid appointment status %q", raw)}
}

func InvalidStatusTransition(from, to string) *Error {
	return &Error{Code: "INVALID_STATUS_TRANSITION", Status: http.StatusBadRequest, Message: fmt.Sprintf("cannot move appointment from %q to %q", from, to)}
}

// Authorization
func PaymentNotAllowed() *Error {
	return &Error{Code: "PAYMENT_NOT_ALLOWED", Status: http.StatusForbidden, Message: "payment is not allowed for this appointment"}
}

func Forbidden() *Error {
	return &Error{Code: "FORBIDDEN", Status: http.StatusForbidden, Message: "you may not act on this appointment"}
}

// Upstream
func Upstream(err error) *Error {
	return &Error{Code: "UPSTREAM_ERROR", Status: http.StatusInternalServerError, Message: "payment provider is unavailable, try again later", Err: err}
}
