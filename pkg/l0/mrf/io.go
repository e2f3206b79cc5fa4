package mrf

import (
	"github.com/golang/glog"

	"github.com/robotalks/mrf.go/pkg/l0/spi"
)

type writeStep int

const (
	stepIdle    writeStep = iota
	stepCommand           // command octets in flight
	stepPayload           // payload in flight
)

// IO accesses the registers and memory of one chip on the bus.
//
// Blocking accesses select the chip, clock a command and data chain and
// deselect it before returning. Non-blocking writes return after the first
// command octet; the rest happens in the completion interrupt, and the
// done callback runs once after the chip is deselected. IO owns the write
// callback of the engine while a non-blocking write is in flight and puts
// the previous one back before done runs.
type IO struct {
	engine  *spi.Engine
	device  spi.Peripheral
	step    writeStep
	command [2]byte
	cmdLen  int
	payload []byte
	done    func()
	saved   spi.Callback
}

// NewIO creates IO for the chip selected by device.
func NewIO(engine *spi.Engine, device spi.Peripheral) *IO {
	return &IO{engine: engine, device: device}
}

// Engine returns the bus engine.
func (io *IO) Engine() *spi.Engine {
	return io.engine
}

// Busy reports whether the bus or a non-blocking write is in flight.
func (io *IO) Busy() bool {
	return io.step != stepIdle || io.engine.Busy()
}

// SetControlRegister writes one register in either address space.
func (io *IO) SetControlRegister(addr uint16, v byte) error {
	glog.V(4).Infof("mrf: set %#03x = %#02x", addr, v)
	if IsShortAddress(addr) {
		return io.WriteBlockingToShortAddress(uint8(addr), []byte{v})
	}
	return io.WriteBlockingToLongAddress(addr, []byte{v})
}

// ReadControlRegister reads one register in either address space.
func (io *IO) ReadControlRegister(addr uint16) (byte, error) {
	var v [1]byte
	var err error
	if IsShortAddress(addr) {
		err = io.ReadBlockingFromShortAddress(uint8(addr), v[:])
	} else {
		err = io.ReadBlockingFromLongAddress(addr, v[:])
	}
	return v[0], err
}

// WriteBlockingToShortAddress writes data starting at a short address.
func (io *IO) WriteBlockingToShortAddress(addr uint8, data []byte) error {
	cmd := WriteShortCommand(addr)
	return io.transfer(&spi.Segment{Out: []byte{cmd}, Next: &spi.Segment{Out: data}})
}

// WriteBlockingToLongAddress writes data starting at a long address.
func (io *IO) WriteBlockingToLongAddress(addr uint16, data []byte) error {
	cmd := WriteLongCommand(addr)
	return io.transfer(&spi.Segment{Out: cmd[:], Next: &spi.Segment{Out: data}})
}

// ReadBlockingFromShortAddress fills buf starting at a short address.
func (io *IO) ReadBlockingFromShortAddress(addr uint8, buf []byte) error {
	cmd := ReadShortCommand(addr)
	return io.transfer(&spi.Segment{Out: []byte{cmd}, Next: &spi.Segment{In: buf}})
}

// ReadBlockingFromLongAddress fills buf starting at a long address.
func (io *IO) ReadBlockingFromLongAddress(addr uint16, buf []byte) error {
	cmd := ReadLongCommand(addr)
	return io.transfer(&spi.Segment{Out: cmd[:], Next: &spi.Segment{In: buf}})
}

// WriteNonBlockingToShortAddress starts writing data at a short address.
// data must stay untouched until done is invoked.
func (io *IO) WriteNonBlockingToShortAddress(addr uint8, data []byte, done func()) error {
	cmd := WriteShortCommand(addr)
	return io.writeNonBlocking([]byte{cmd}, data, done)
}

// WriteNonBlockingToLongAddress starts writing data at a long address.
// data must stay untouched until done is invoked.
func (io *IO) WriteNonBlockingToLongAddress(addr uint16, data []byte, done func()) error {
	cmd := WriteLongCommand(addr)
	return io.writeNonBlocking(cmd[:], data, done)
}

func (io *IO) transfer(seg *spi.Segment) error {
	if io.Busy() {
		return spi.ErrBusBusy
	}
	io.engine.SelectPeripheral(io.device)
	err := io.engine.Transfer(seg)
	io.engine.DeselectPeripheral(io.device)
	return err
}

func (io *IO) writeNonBlocking(cmd, data []byte, done func()) error {
	if io.Busy() {
		return spi.ErrBusBusy
	}
	io.cmdLen = copy(io.command[:], cmd)
	io.payload, io.done = data, done
	io.step = stepCommand
	io.saved = io.engine.WriteCallback()
	io.engine.SelectPeripheral(io.device)
	io.engine.SetWriteCallback(io.advance)
	if err := io.engine.WriteNonBlocking(io.command[:io.cmdLen]); err != nil {
		io.engine.DeselectPeripheral(io.device)
		io.reset()
		return err
	}
	return nil
}

// advance runs on completion of each non-blocking step.
func (io *IO) advance() {
	switch io.step {
	case stepCommand:
		io.step = stepPayload
		io.engine.SetWriteCallback(io.advance)
		if err := io.engine.WriteNonBlocking(io.payload); err != nil {
			glog.Errorf("mrf: payload write failed: %v", err)
			io.complete()
		}
	case stepPayload:
		io.complete()
	}
}

func (io *IO) complete() {
	io.engine.DeselectPeripheral(io.device)
	done := io.done
	io.reset()
	if done != nil {
		done()
	}
}

func (io *IO) reset() {
	io.engine.SetWriteCallback(io.saved)
	io.step, io.payload, io.done, io.cmdLen, io.saved = stepIdle, nil, nil, 0, nil
}
