package model

import "errors"

var (
	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyRegistered is returned when a user already holds an active
	// registration for the event.
	ErrAlreadyRegistered = errors.New("user already registered for this event")

	// ErrAlreadyWaitlisted is returned when the user is already queued.
	ErrAlreadyWaitlisted = errors.New("user already on the waitlist")

	// ErrNotWaitlisted is returned when removing a user who is not queued.
	ErrNotWaitlisted = errors.New("user is not on the waitlist")

	// ErrEventNotOpen is returned when the event does not accept registrations.
	ErrEventNotOpen = errors.New("event is not open for registration")

	ErrEventNotCancelled = errors.New("event is not cancelled")

	// ErrInvalidTransition is returned for a status change the lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrValidation = errors.New("validation failed")

	// ErrCapacityUnavailable is returned when an edit needs more seats than
	// remain. New submissions are routed to the waitlist instead.
	ErrCapacityUnavailable = errors.New("not enough capacity")

	// ErrSeatsAvailable is returned when joining the waitlist of an event
	// that can still admit the request directly.
	ErrSeatsAvailable = errors.New("event still has seats available")
)
