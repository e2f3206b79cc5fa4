// Package spi provides the interrupt-driven transfer engine of the
// synchronous serial bus.
package spi

// The engine drives one bus hardware unit and allows at most one transfer
// in flight. A non-blocking transfer writes the first byte and returns; each
// transfer-complete interrupt must be routed to Engine.HandleInterrupt which
// advances the transfer by one byte. When the last byte completes, the
// engine returns to idle, disables the completion interrupt and invokes the
// registered completion callback.
//
// Blocking transfers busy-wait on the transfer-complete flag of each byte
// and must not be started from within the interrupt handler.
