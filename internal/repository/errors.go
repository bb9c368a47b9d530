// Package repository defines storage interfaces and their PostgreSQL
// implementations for the helmet core domain.
package repository

import "errors"

var (
	// ErrDeviceNotFound is returned when a device is not found.
	ErrDeviceNotFound = errors.New("device not found")
	// ErrDeviceExists is returned when creating a device with an existing device_code.
	ErrDeviceExists = errors.New("device already exists")

	// ErrRideNotFound is returned when a ride is not found.
	ErrRideNotFound = errors.New("ride not found")
	// ErrNoActiveRide is returned when a device has no active or ending ride.
	ErrNoActiveRide = errors.New("no active ride for device")

	// ErrResponderNotFound is returned when no on-duty responder is available.
	ErrResponderNotFound = errors.New("no on-duty responder found")

	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
)
