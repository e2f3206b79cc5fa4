package mrf

import (
	"errors"
	"fmt"
)

var (
	// ErrHardwareBusy indicates the chip configuration couldn't complete
	// because the bus was occupied.
	ErrHardwareBusy = errors.New("hardware busy")
	// ErrPayloadTooLarge indicates the payload doesn't fit into one frame.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrInvalidChannel indicates a channel outside 11-26.
	ErrInvalidChannel = errors.New("invalid channel")
)

// InitError reports the configuration step which failed.
type InitError struct {
	Step string
	Err  error
}

// Error implements error.
func (e *InitError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Unwrap returns the cause.
func (e *InitError) Unwrap() error {
	return e.Err
}
