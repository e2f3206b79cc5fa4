package mrf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/mrf.go/pkg/l0/spi"
)

// recorder is the bus hardware and the chip select of one device. It keeps
// the octets clocked during each selection.
type recorder struct {
	t            *testing.T
	selected     bool
	current      []byte
	transactions [][]byte
	events       []string
	reply        func(tx []byte) byte
	last         byte
	irq          bool
}

func newRecorder(t *testing.T) *recorder {
	return &recorder{t: t}
}

func (r *recorder) Write(b byte) {
	if !r.selected {
		r.t.Errorf("octet %#02x clocked without chip select", b)
	}
	r.current = append(r.current, b)
	r.last = 0
	if r.reply != nil {
		r.last = r.reply(r.current)
	}
}

func (r *recorder) Read() byte             { return r.last }
func (r *recorder) TransferComplete() bool { return true }
func (r *recorder) EnableInterrupt()       { r.irq = true }
func (r *recorder) DisableInterrupt()      { r.irq = false }

func (r *recorder) Select() {
	r.selected, r.current = true, []byte{}
	r.events = append(r.events, "select")
}

func (r *recorder) Deselect() {
	r.transactions = append(r.transactions, r.current)
	r.selected, r.current = false, nil
	r.events = append(r.events, "deselect")
}

func (r *recorder) reset() {
	r.transactions, r.events = nil, nil
}

// memory serves reads of a long address range.
func (r *recorder) memory(addr uint16, data []byte) {
	cmd := ReadLongCommand(addr)
	r.reply = func(tx []byte) byte {
		if len(tx) >= 3 && tx[0] == cmd[0] && tx[1] == cmd[1] {
			if n := len(tx) - 3; n < len(data) {
				return data[n]
			}
		}
		return 0
	}
}

func newTestIO(t *testing.T) (*IO, *recorder) {
	r := newRecorder(t)
	return NewIO(spi.NewEngine(r), r), r
}

func interrupts(e *spi.Engine) {
	for e.Busy() {
		e.HandleInterrupt()
	}
}

func shortWrite(addr uint16, data ...byte) []byte {
	return append([]byte{WriteShortCommand(uint8(addr))}, data...)
}

func longWrite(addr uint16, data ...byte) []byte {
	cmd := WriteLongCommand(addr)
	return append(cmd[:], data...)
}

func TestCommandEncoding(t *testing.T) {
	assert.Equal(t, byte(0x55), WriteShortCommand(0x2a))
	assert.Equal(t, byte(0x54), ReadShortCommand(0x2a))
	assert.Equal(t, byte(0x01), WriteShortCommand(0x00))
	assert.Equal(t, byte(0x62), ReadShortCommand(0x31))
	assert.Equal(t, byte(0x7f), WriteShortCommand(0x3f))
	assert.Equal(t, [2]byte{0x80, 0x10}, WriteLongCommand(0x000))
	assert.Equal(t, [2]byte{0x80, 0x00}, ReadLongCommand(0x000))
	assert.Equal(t, [2]byte{0xc0, 0x10}, WriteLongCommand(0x200))
	assert.Equal(t, [2]byte{0xc0, 0x70}, WriteLongCommand(0x203))
	assert.Equal(t, [2]byte{0xe0, 0x00}, ReadLongCommand(0x300))
	assert.Equal(t, [2]byte{0xff, 0xf0}, WriteLongCommand(0x3ff))
}

func TestChannelValue(t *testing.T) {
	testCases := []struct {
		channel uint8
		value   byte
		err     error
	}{
		{channel: 11, value: 0x03},
		{channel: 13, value: 0x23},
		{channel: 15, value: 0x43},
		{channel: 26, value: 0xf3},
		{channel: 10, err: ErrInvalidChannel},
		{channel: 27, err: ErrInvalidChannel},
	}
	for _, tc := range testCases {
		v, err := ChannelValue(tc.channel)
		assert.Equal(t, tc.err, err, "channel %d", tc.channel)
		assert.Equal(t, tc.value, v, "channel %d", tc.channel)
		if err == nil {
			assert.Equal(t, tc.channel, ChannelOf(v))
		}
	}
}

func TestIOSetControlRegister(t *testing.T) {
	io, r := newTestIO(t)
	require.NoError(t, io.SetControlRegister(RegSOFTRST, 0x07))
	require.NoError(t, io.SetControlRegister(RegRFCON3, 0xc0))
	require.Equal(t, [][]byte{{0x55, 0x07}, {0xc0, 0x70, 0xc0}}, r.transactions)
	require.Equal(t, []string{"select", "deselect", "select", "deselect"}, r.events)
}

func TestIOReadControlRegister(t *testing.T) {
	io, r := newTestIO(t)
	r.reply = func(tx []byte) byte {
		switch {
		case len(tx) == 2 && tx[0] == ReadShortCommand(uint8(RegINTSTAT)):
			return 0x5a
		case len(tx) == 3 && tx[0] == 0xc0 && tx[1] == 0x20:
			return 0xa5
		}
		return 0xff
	}
	v, err := io.ReadControlRegister(RegINTSTAT)
	require.NoError(t, err)
	require.Equal(t, byte(0x5a), v)
	v, err = io.ReadControlRegister(RegRFCON1)
	require.NoError(t, err)
	require.Equal(t, byte(0xa5), v)
	require.Equal(t, [][]byte{{0x62, 0}, {0xc0, 0x20, 0}}, r.transactions)
}

func TestIOBlockingAccess(t *testing.T) {
	io, r := newTestIO(t)
	require.NoError(t, io.WriteBlockingToShortAddress(uint8(RegEADR0), []byte{1, 2, 3}))
	require.NoError(t, io.WriteBlockingToLongAddress(TxNormalFIFO, []byte{4, 5}))
	r.memory(RxFIFO, []byte{9, 8, 7})
	buf := make([]byte, 3)
	require.NoError(t, io.ReadBlockingFromLongAddress(RxFIFO, buf))
	require.Equal(t, []byte{9, 8, 7}, buf)
	require.NoError(t, io.ReadBlockingFromShortAddress(uint8(RegPANIDL), make([]byte, 2)))
	require.Equal(t, [][]byte{
		{0x0b, 1, 2, 3},
		{0x80, 0x10, 4, 5},
		{0xe0, 0x00, 0, 0, 0},
		{0x02, 0, 0},
	}, r.transactions)
}

func TestIOWriteNonBlocking(t *testing.T) {
	io, r := newTestIO(t)
	calls := 0
	payload := []byte{0xaa, 0xbb, 0xcc}
	require.NoError(t, io.WriteNonBlockingToLongAddress(0x123, payload, func() {
		calls++
		require.Equal(t, []string{"select", "deselect"}, r.events)
		require.False(t, io.Busy())
	}))
	require.True(t, io.Busy())
	require.Equal(t, []byte{0xa4}, r.current)

	interrupts(io.Engine())
	require.Equal(t, 1, calls)
	require.Equal(t, [][]byte{longWrite(0x123, 0xaa, 0xbb, 0xcc)}, r.transactions)
	require.False(t, r.irq)

	r.reset()
	require.NoError(t, io.WriteNonBlockingToShortAddress(uint8(RegTXNCON), []byte{1}, nil))
	interrupts(io.Engine())
	require.Equal(t, [][]byte{shortWrite(RegTXNCON, 1)}, r.transactions)
	require.Equal(t, 1, calls)
}

func TestIOWriteNonBlockingEmptyPayload(t *testing.T) {
	io, r := newTestIO(t)
	calls := 0
	require.NoError(t, io.WriteNonBlockingToShortAddress(0x10, nil, func() { calls++ }))
	interrupts(io.Engine())
	require.Equal(t, 1, calls)
	require.Equal(t, [][]byte{{0x21}}, r.transactions)
}

func TestIOBusy(t *testing.T) {
	io, r := newTestIO(t)
	require.NoError(t, io.WriteNonBlockingToLongAddress(0x000, []byte{1, 2}, nil))
	clocked := len(r.current)

	require.Equal(t, spi.ErrBusBusy, io.SetControlRegister(RegRXMCR, 1))
	_, err := io.ReadControlRegister(RegINTSTAT)
	require.Equal(t, spi.ErrBusBusy, err)
	require.Equal(t, spi.ErrBusBusy, io.WriteBlockingToLongAddress(0x000, []byte{1}))
	require.Equal(t, spi.ErrBusBusy, io.WriteNonBlockingToShortAddress(0x00, []byte{1}, nil))
	require.Equal(t, spi.ErrBusBusy, io.ReadBlockingFromLongAddress(RxFIFO, make([]byte, 1)))
	require.Len(t, r.current, clocked)
	require.Equal(t, []string{"select"}, r.events)

	// between command and payload the engine is idle for a moment but the
	// write is still in flight
	io.Engine().HandleInterrupt()
	io.Engine().HandleInterrupt()
	require.True(t, io.Busy())
	interrupts(io.Engine())
	require.False(t, io.Busy())
	require.NoError(t, io.SetControlRegister(RegRXMCR, 1))
}

func TestIOChainedNonBlockingWrites(t *testing.T) {
	io, r := newTestIO(t)
	var order []string
	require.NoError(t, io.WriteNonBlockingToLongAddress(0x000, []byte{1}, func() {
		order = append(order, "first")
		require.NoError(t, io.WriteNonBlockingToShortAddress(uint8(RegTXNCON), []byte{1}, func() {
			order = append(order, "second")
		}))
	}))
	interrupts(io.Engine())
	require.Equal(t, []string{"first", "second"}, order)
	require.Equal(t, [][]byte{longWrite(0x000, 1), shortWrite(RegTXNCON, 1)}, r.transactions)
}

func TestIOKeepsEngineWriteCallback(t *testing.T) {
	io, _ := newTestIO(t)
	writes := 0
	io.Engine().SetWriteCallback(func() { writes++ })

	done := 0
	require.NoError(t, io.WriteNonBlockingToLongAddress(0x000, []byte{1, 2}, func() {
		done++
		require.NotNil(t, io.Engine().WriteCallback())
	}))
	interrupts(io.Engine())
	require.Equal(t, 1, done)
	require.Zero(t, writes)

	require.NoError(t, io.SetControlRegister(RegRXMCR, 0))
	require.Equal(t, 1, writes)

	io.Engine().SetWriteCallback(nil)
	require.NoError(t, io.WriteNonBlockingToShortAddress(uint8(RegTXNCON), []byte{1}, nil))
	interrupts(io.Engine())
	require.Nil(t, io.Engine().WriteCallback())
}
