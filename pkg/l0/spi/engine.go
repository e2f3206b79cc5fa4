package spi

// State is the transfer state of the engine.
type State int

const (
	// StateIdle means no transfer is in flight.
	StateIdle State = iota
	// StateWriteInProgress means a non-blocking write is in flight.
	StateWriteInProgress
	// StateReadInProgress means a non-blocking read is in flight.
	StateReadInProgress
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWriteInProgress:
		return "write"
	case StateReadInProgress:
		return "read"
	}
	return "unknown"
}

// Callback is invoked when a transfer completes.
type Callback func()

// Engine drives transfers over one Hardware unit.
type Engine struct {
	hw    Hardware
	state State
	buf   []byte
	index int

	writeCallback      Callback
	readCallback       Callback
	clearWriteCallback bool
	clearReadCallback  bool
}

// NewEngine creates an idle engine on the hardware.
func NewEngine(hw Hardware) *Engine {
	return &Engine{hw: hw}
}

// State returns the current transfer state.
func (e *Engine) State() State {
	return e.state
}

// Busy reports whether a transfer is in flight.
func (e *Engine) Busy() bool {
	return e.state != StateIdle
}

// SetWriteCallback registers the callback for write completion.
// A nil callback removes it.
func (e *Engine) SetWriteCallback(cb Callback) {
	e.writeCallback = cb
}

// WriteCallback returns the registered write callback.
func (e *Engine) WriteCallback() Callback {
	return e.writeCallback
}

// SetReadCallback registers the callback for read completion.
func (e *Engine) SetReadCallback(cb Callback) {
	e.readCallback = cb
}

// SetCallbackClearFlags sets whether each callback is removed right before
// it is invoked.
func (e *Engine) SetCallbackClearFlags(clearWrite, clearRead bool) {
	e.clearWriteCallback, e.clearReadCallback = clearWrite, clearRead
}

// SelectPeripheral asserts the chip-select line of the device.
func (e *Engine) SelectPeripheral(p Peripheral) {
	p.Select()
}

// DeselectPeripheral deasserts the chip-select line of the device.
func (e *Engine) DeselectPeripheral(p Peripheral) {
	p.Deselect()
}

// WriteNonBlocking starts sending buf and returns after the first byte is
// written. The buffer must stay untouched until the write callback runs.
func (e *Engine) WriteNonBlocking(buf []byte) error {
	if e.Busy() {
		return ErrBusBusy
	}
	e.state, e.buf, e.index = StateWriteInProgress, buf, 0
	e.hw.EnableInterrupt()
	e.advanceWrite()
	return nil
}

// ReadNonBlocking starts receiving len(buf) bytes into buf, clocking a dummy
// zero byte for each of them.
func (e *Engine) ReadNonBlocking(buf []byte) error {
	if e.Busy() {
		return ErrBusBusy
	}
	e.state, e.buf, e.index = StateReadInProgress, buf, 0
	if len(buf) == 0 {
		e.finish()
		return nil
	}
	e.hw.EnableInterrupt()
	e.hw.Write(0)
	return nil
}

// HandleInterrupt advances the in-flight transfer by one byte.
// It must be called on every transfer-complete interrupt.
func (e *Engine) HandleInterrupt() {
	switch e.state {
	case StateWriteInProgress:
		e.advanceWrite()
	case StateReadInProgress:
		e.buf[e.index] = e.hw.Read()
		e.index++
		if e.index >= len(e.buf) {
			e.finish()
			return
		}
		e.hw.Write(0)
	}
}

// WriteBlocking sends buf and waits for every byte.
func (e *Engine) WriteBlocking(buf []byte) error {
	if e.Busy() {
		return ErrBusBusy
	}
	for _, b := range buf {
		e.exchange(b)
	}
	e.invoke(&e.writeCallback, e.clearWriteCallback)
	return nil
}

// ReadBlocking fills buf and waits for every byte.
func (e *Engine) ReadBlocking(buf []byte) error {
	if e.Busy() {
		return ErrBusBusy
	}
	for n := range buf {
		buf[n] = e.exchange(0)
	}
	e.invoke(&e.readCallback, e.clearReadCallback)
	return nil
}

// Transfer clocks the whole segment chain in full duplex and waits for
// every byte. The read callback is invoked if any segment captures input,
// otherwise the write callback.
func (e *Engine) Transfer(seg *Segment) error {
	if e.Busy() {
		return ErrBusBusy
	}
	reads := seg.Reads()
	for s := seg; s != nil; s = s.Next {
		for n, l := 0, s.Len(); n < l; n++ {
			var out byte
			if n < len(s.Out) {
				out = s.Out[n]
			}
			in := e.exchange(out)
			if n < len(s.In) {
				s.In[n] = in
			}
		}
	}
	if reads {
		e.invoke(&e.readCallback, e.clearReadCallback)
	} else {
		e.invoke(&e.writeCallback, e.clearWriteCallback)
	}
	return nil
}

func (e *Engine) exchange(b byte) byte {
	e.hw.Write(b)
	for !e.hw.TransferComplete() {
	}
	return e.hw.Read()
}

func (e *Engine) advanceWrite() {
	if e.index < len(e.buf) {
		b := e.buf[e.index]
		e.index++
		e.hw.Write(b)
		return
	}
	e.finish()
}

// finish returns to idle before the callback so that the callback is free
// to start the next transfer.
func (e *Engine) finish() {
	state := e.state
	e.state, e.buf, e.index = StateIdle, nil, 0
	e.hw.DisableInterrupt()
	if state == StateReadInProgress {
		e.invoke(&e.readCallback, e.clearReadCallback)
	} else {
		e.invoke(&e.writeCallback, e.clearWriteCallback)
	}
}

func (e *Engine) invoke(cb *Callback, clear bool) {
	fn := *cb
	if clear {
		*cb = nil
	}
	if fn != nil {
		fn()
	}
}
