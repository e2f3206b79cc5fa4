package spi

// Hardware abstracts the bus hardware unit.
type Hardware interface {
	// Write places one byte into the data register and starts clocking.
	Write(b byte)
	// Read returns the byte shifted in by the last transfer.
	Read() byte
	// TransferComplete reports whether the last byte finished shifting.
	TransferComplete() bool
	// EnableInterrupt enables the transfer-complete interrupt.
	EnableInterrupt()
	// DisableInterrupt disables the transfer-complete interrupt.
	DisableInterrupt()
}

// Peripheral is the chip-select line of a device on the bus.
type Peripheral interface {
	Select()
	Deselect()
}

// PeripheralFuncs adapts a pair of functions to Peripheral.
type PeripheralFuncs struct {
	SelectFunc   func()
	DeselectFunc func()
}

// Select implements Peripheral.
func (p PeripheralFuncs) Select() {
	if p.SelectFunc != nil {
		p.SelectFunc()
	}
}

// Deselect implements Peripheral.
func (p PeripheralFuncs) Deselect() {
	if p.DeselectFunc != nil {
		p.DeselectFunc()
	}
}
