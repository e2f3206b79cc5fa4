package spi

import "errors"

var (
	// ErrBusBusy indicates a transfer is already in flight.
	ErrBusBusy = errors.New("bus busy")
)
