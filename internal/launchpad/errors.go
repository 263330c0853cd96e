package launchpad

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceNotFound is wrapped by DeviceNotFoundError.
	ErrDeviceNotFound = errors.New("launchpad: device not found")
	// ErrUnsupportedProtocol means no MIDI backend is available on this
	// platform or build.
	ErrUnsupportedProtocol = errors.New("launchpad: no MIDI backend available")
	// ErrClosed is returned when sending on a closed transport.
	ErrClosed = errors.New("launchpad: transport closed")
)

// DeviceNotFoundError reports which port could not be found.
type DeviceNotFoundError struct {
	Name      string
	Direction string // "input" or "output"
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("launchpad: no MIDI %s port matching %q", e.Direction, e.Name)
}

func (e *DeviceNotFoundError) Unwrap() error {
	return ErrDeviceNotFound
}
