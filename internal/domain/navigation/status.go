package navigation

import (
	"errors"
	"strings"
)

// Status is a navigation session status as stored in the
// `navigation_sessions` table.
type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusNavigating Status = "NAVIGATING"
	StatusArrived    Status = "ARRIVED"
	StatusFailed     Status = "FAILED"
	StatusPaused     Status = "PAUSED"
)

var ErrInvalidStatus = errors.New("invalid navigation status")

// ParseStatus normalizes (uppercases+trims) and validates a status string.
// Callers receiving tokens from robots should treat an error as
// ignore-and-log, not as a request failure.
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
	case StatusIdle, StatusNavigating, StatusArrived, StatusFailed, StatusPaused:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Status.
func (status Status) String() string {
	return string(status)
}

// CanTransitionTo specifies if the status can transition to the next status.
// NAVIGATING and PAUSED are the only mutually reversible pair; ARRIVED and
// FAILED are terminal.
func (status Status) CanTransitionTo(next Status) bool {
	switch status {
	case StatusIdle:
		return next == StatusNavigating

	case StatusNavigating:
		return next == StatusPaused || next == StatusArrived || next == StatusFailed

	case StatusPaused:
		return next == StatusNavigating || next == StatusArrived || next == StatusFailed

	case StatusArrived, StatusFailed:
		return false

	default:
		return false
	}
}

// Terminal indicates if the status is in a terminal state.
func (status Status) Terminal() bool {
	return status == StatusArrived || status == StatusFailed
}
