package iotmodels

import "errors"

// Error taxonomy shared by services and controllers.
var (
	// ErrValidation is returned when a required input is empty after trimming.
	ErrValidation = errors.New("missing required field")

	// ErrDuplicateEmail is returned when the normalized email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials unifies "no such user" and "wrong password" so the
	// login flow cannot be used for user enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDeviceNotFound is returned when the user owns no device with the slug.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrNotSwitchable is returned when toggling a device that is not a switch.
	ErrNotSwitchable = errors.New("device not switchable")

	// ErrStorageUnavailable indicates a storage connectivity failure.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
