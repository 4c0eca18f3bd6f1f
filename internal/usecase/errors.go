package usecase

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error categories. Every domain error unwraps to exactly one of them and
// the HTTP layer only looks at the category.
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrLimitExceeded = errors.New("limit exceeded")
	ErrInvalidState  = errors.New("invalid state")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrValidation    = errors.New("validation failed")
)

type domainError struct {
	msg      string
	category error
}

func (e *domainError) Error() string { return e.msg }
func (e *domainError) Unwrap() error { return e.category }

func newError(category error, msg string) error {
	return &domainError{msg: msg, category: category}
}

// Domain errors
var (
	// Catalog
	ErrMovieNotFound    = newError(ErrNotFound, "movie not found")
	ErrHallNotFound     = newError(ErrNotFound, "hall not found")
	ErrFunctionNotFound = newError(ErrNotFound, "function not found")
	ErrFunctionOverlap  = newError(ErrConflict, "function overlaps another function in the same hall")
	ErrHallInUse        = newError(ErrConflict, "hall already has functions")
	ErrFunctionHasSales = newError(ErrConflict, "function has active tickets")
	ErrHallNotAvailable = newError(ErrInvalidState, "hall is not available")

	// Reservation
	ErrBookingNotFound      = newError(ErrNotFound, "booking not found")
	ErrSeatNotFound         = newError(ErrNotFound, "seat not found in function hall")
	ErrTicketNotFound       = newError(ErrNotFound, "ticket not found")
	ErrSeatUnavailable      = newError(ErrConflict, "seat is not available")
	ErrDuplicateSeatRequest = newError(ErrConflict, "seat requested more than once")
	ErrTicketLimitExceeded  = newError(ErrLimitExceeded, "ticket limit per function exceeded")
	ErrInvalidBookingState  = newError(ErrInvalidState, "booking is not in a valid state for this operation")
	ErrHoldExpired          = newError(ErrInvalidState, "booking hold has expired")
	ErrTicketAlreadyScanned = newError(ErrConflict, "ticket already scanned")
	ErrTicketNotValid       = newError(ErrInvalidState, "ticket is not valid for entry")
	ErrAmountMismatch       = newError(ErrValidation, "payment amount does not match booking total")
	ErrEmptyBooking         = newError(ErrInvalidState, "booking has no tickets")

	// Combo
	ErrComboNotFound = newError(ErrNotFound, "combo not found")

	// Payment
	ErrPaymentMethodNotFound = newError(ErrNotFound, "payment method not found")

	// Notification
	ErrNotificationNotFound = newError(ErrNotFound, "notification not found")

	// Auth
	ErrNotOwner           = newError(ErrUnauthorized, "booking belongs to another user")
	ErrUserBlocked        = newError(ErrUnauthorized, "user is temporarily blocked")
	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid credentials")
	ErrAccountInactive    = newError(ErrUnauthorized, "account is deactivated")
	ErrEmailTaken         = newError(ErrConflict, "email already registered")
	ErrUsernameTaken      = newError(ErrConflict, "username already taken")
	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrInvalidSession     = newError(ErrUnauthorized, "session not found or already revoked")
)

// SeatUnavailableError names the seat that could not be claimed.
type SeatUnavailableError struct {
	SeatID uuid.UUID
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seat %s is not available", e.SeatID)
}

func (e *SeatUnavailableError) Is(target error) bool {
	return target == ErrSeatUnavailable
}

func (e *SeatUnavailableError) Unwrap() error { return ErrConflict }

// validationError builds an ErrValidation error with a field specific message.
func validationError(format string, args ...any) error {
	return newError(ErrValidation, fmt.Sprintf(format, args...))
}
