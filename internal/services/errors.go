package services

import "errors"

// Validation errors are rejected before any write and are fully recoverable
// by correcting the input. Warnings (overload, compatibility) are never
// errors; they ride along on a successful outcome.
var (
	ErrDuplicateBooking = errors.New("order already booked on this tour, resize the existing stop instead")
	ErrStopNotFound     = errors.New("no stop exists for this order on this tour")
	ErrInvalidTonnage   = errors.New("tonnage must be greater than zero")
	ErrTourNotFound     = errors.New("tour not found")
	ErrOrderNotFound    = errors.New("order not found")
)
