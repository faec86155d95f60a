package robot

import (
	"errors"
	"strings"
)

// Status is a robot operational status as reported over telemetry.
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusBusy      Status = "BUSY"
	StatusCharging  Status = "CHARGING"
	StatusError     Status = "ERROR"
	StatusOffline   Status = "OFFLINE"
)

var ErrInvalidStatus = errors.New("invalid robot status")

// ParseStatus normalizes (uppercases+trims) and validates a status string.
func ParseStatus(in string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(in)))
	if status.Valid() {
		return status, nil
	}
	return "", ErrInvalidStatus
}

// Valid reports whether status is one of the allowed status constants.
func (status Status) Valid() bool {
	switch status {
	case StatusAvailable, StatusBusy, StatusCharging, StatusError, StatusOffline:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Status.
func (status Status) String() string {
	return string(status)
}
