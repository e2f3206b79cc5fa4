package chip

import (
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/mrf.go/pkg/l0/frame"
	"github.com/robotalks/mrf.go/pkg/l0/mrf"
)

// Medium carries frames transmitted by a chip to the others.
type Medium interface {
	Transmit(from *Chip, channel uint8, psdu []byte) error
}

// Stats counts frames through the chip.
type Stats struct {
	Transmitted int
	Received    int
	Dropped     int
}

type phase int

const (
	phaseIdle        phase = iota // not selected
	phaseCommand                  // waiting for the first command octet
	phaseLongCommand              // waiting for the second octet of a long command
	phaseData                     // reading or writing data
)

// Chip simulates an MRF24J40 behind its bus interface. It implements
// spi.Hardware and spi.Peripheral so the driver stack runs unmodified on
// top of it.
type Chip struct {
	Name   string
	Medium Medium
	// Vector handles the transfer-complete interrupt, see Pump.
	Vector func()

	lock       sync.Mutex
	short      [mrf.MaxShortAddress + 1]byte
	long       [mrf.MaxLongAddress + 1]byte
	phase      phase
	cmdHigh    byte
	addr       uint16
	longAddr   bool
	write      bool
	shifted    byte
	complete   bool
	irqEnabled bool
	pending    int
	stats      Stats
}

// New creates a chip in its power-on state.
func New(name string) *Chip {
	c := &Chip{Name: name}
	c.powerOn()
	return c
}

func (c *Chip) powerOn() {
	c.short = [mrf.MaxShortAddress + 1]byte{}
	for addr := mrf.RegRFCON0; addr <= mrf.MaxLongAddress; addr++ {
		c.long[addr] = 0
	}
	c.short[mrf.RegINTCON] = 0xff
}

// Select implements spi.Peripheral.
func (c *Chip) Select() {
	c.lock.Lock()
	c.phase = phaseCommand
	c.lock.Unlock()
}

// Deselect implements spi.Peripheral.
func (c *Chip) Deselect() {
	c.lock.Lock()
	c.phase = phaseIdle
	c.lock.Unlock()
}

// Write implements spi.Hardware.
func (c *Chip) Write(b byte) {
	c.lock.Lock()
	psdu := c.clock(b)
	channel := c.channel()
	c.complete = true
	if c.irqEnabled {
		c.pending++
	}
	medium := c.Medium
	c.lock.Unlock()

	if psdu != nil && medium != nil {
		if err := medium.Transmit(c, channel, psdu); err != nil {
			glog.Warningf("%s: transmit failed: %v", c.Name, err)
		}
	}
}

// Read implements spi.Hardware.
func (c *Chip) Read() byte {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.complete = false
	return c.shifted
}

// TransferComplete implements spi.Hardware.
func (c *Chip) TransferComplete() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.complete
}

// EnableInterrupt implements spi.Hardware.
func (c *Chip) EnableInterrupt() {
	c.lock.Lock()
	c.irqEnabled = true
	c.lock.Unlock()
}

// DisableInterrupt implements spi.Hardware.
func (c *Chip) DisableInterrupt() {
	c.lock.Lock()
	c.irqEnabled, c.pending = false, 0
	c.lock.Unlock()
}

// Pump delivers pending transfer-complete interrupts to Vector until none
// is left and returns how many were delivered.
func (c *Chip) Pump() (n int) {
	for {
		c.lock.Lock()
		if c.pending == 0 || c.Vector == nil {
			c.lock.Unlock()
			return
		}
		c.pending--
		vector := c.Vector
		c.lock.Unlock()
		vector()
		n++
	}
}

// clock shifts one octet in and returns the PSDU to transmit if the octet
// triggered a transmission.
func (c *Chip) clock(b byte) (psdu []byte) {
	c.shifted = 0
	switch c.phase {
	case phaseCommand:
		if b&0x80 == 0 {
			c.addr, c.write, c.longAddr = uint16(b>>1)&mrf.MaxShortAddress, b&1 != 0, false
			c.phase = phaseData
		} else {
			c.cmdHigh, c.phase = b, phaseLongCommand
		}
	case phaseLongCommand:
		c.addr = (uint16(c.cmdHigh&0x7f)<<3 | uint16(b>>5)) & mrf.MaxLongAddress
		c.write, c.longAddr = b&0x10 != 0, true
		c.phase = phaseData
	case phaseData:
		if c.write {
			psdu = c.store(b)
		} else {
			c.shifted = c.load()
		}
		c.addr++
		if c.longAddr {
			c.addr &= mrf.MaxLongAddress
		} else {
			c.addr &= mrf.MaxShortAddress
		}
	}
	return
}

func (c *Chip) store(b byte) []byte {
	if c.longAddr {
		c.long[c.addr] = b
		return nil
	}
	switch c.addr {
	case mrf.RegSOFTRST:
		if b&mrf.ValueFullSoftwareReset != 0 {
			c.powerOn()
		}
	case mrf.RegINTSTAT:
	case mrf.RegTXNCON:
		if b&mrf.ValueTXNCONTrigger != 0 {
			return c.transmit()
		}
		c.short[c.addr] = b
	default:
		c.short[c.addr] = b
	}
	return nil
}

func (c *Chip) load() byte {
	if c.longAddr {
		return c.long[c.addr]
	}
	v := c.short[c.addr]
	if c.addr == mrf.RegINTSTAT {
		c.short[c.addr] = 0
	}
	return v
}

// transmit takes the frame from the transmit FIFO and appends the FCS.
func (c *Chip) transmit() []byte {
	base := int(mrf.TxNormalFIFO)
	n := int(c.long[base+1])
	if n > frame.MaxPHYPacketSize-frame.FCSSize {
		n = frame.MaxPHYPacketSize - frame.FCSSize
	}
	psdu := make([]byte, n, n+frame.FCSSize)
	copy(psdu, c.long[base+2:base+2+n])
	c.short[mrf.RegINTSTAT] |= 1 << mrf.IntTXN
	c.stats.Transmitted++
	glog.V(3).Infof("%s: transmit %d octets on channel %d", c.Name, n, c.channel())
	return frame.AppendFCS(psdu)
}

// Receive puts a frame from the air into the receive FIFO if the chip
// listens on the channel and accepts the frame. A frame received before the
// previous one is fetched overwrites it.
func (c *Chip) Receive(channel uint8, psdu []byte, lqi, rssi byte) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	if channel != c.channel() || !c.accepts(psdu) {
		c.stats.Dropped++
		return false
	}
	base := int(mrf.RxFIFO)
	c.long[base] = byte(len(psdu))
	copy(c.long[base+1:], psdu)
	c.long[base+1+len(psdu)] = lqi
	c.long[base+2+len(psdu)] = rssi
	c.short[mrf.RegINTSTAT] |= 1 << mrf.IntRX
	c.stats.Received++
	glog.V(3).Infof("%s: received %d octets on channel %d", c.Name, len(psdu), channel)
	return true
}

func (c *Chip) accepts(psdu []byte) bool {
	if len(psdu)+frame.FrameLengthSize+frame.LinkQualitySize > mrf.RxFIFOSize ||
		c.short[mrf.RegBBREG1]&mrf.ValueBBREG1RxDisabled != 0 {
		return false
	}
	rxmcr := c.short[mrf.RegRXMCR]
	if rxmcr&mrf.ValueRXMCRErrorMode == 0 && frame.CheckFCS(psdu) != nil {
		return false
	}
	if rxmcr&mrf.ValueRXMCRPromiscuous != 0 {
		return true
	}
	h, err := frame.ParseHeader(psdu)
	if err != nil {
		return false
	}
	if pan := h.PANID(); pan != frame.BroadcastPANID && pan != c.panID() {
		return false
	}
	dest := h.DestinationAddressValue()
	switch h.FrameControl().DestinationAddressingMode {
	case frame.AddressingModeShort:
		return dest == frame.BroadcastShortAddress || uint16(dest) == c.shortAddress()
	case frame.AddressingModeExtended:
		return dest == c.extendedAddress()
	}
	return false
}

func (c *Chip) channel() uint8 {
	return mrf.ChannelOf(c.long[mrf.RegRFCON0])
}

func (c *Chip) panID() uint16 {
	return uint16(c.short[mrf.RegPANIDL]) | uint16(c.short[mrf.RegPANIDH])<<8
}

func (c *Chip) shortAddress() uint16 {
	return uint16(c.short[mrf.RegSADRL]) | uint16(c.short[mrf.RegSADRH])<<8
}

func (c *Chip) extendedAddress() (v uint64) {
	for n := 7; n >= 0; n-- {
		v = v<<8 | uint64(c.short[int(mrf.RegEADR0)+n])
	}
	return
}

// Channel returns the channel the chip is tuned to.
func (c *Chip) Channel() uint8 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.channel()
}

// PANID returns the programmed PAN ID.
func (c *Chip) PANID() uint16 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.panID()
}

// ShortAddress returns the programmed short address.
func (c *Chip) ShortAddress() uint16 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.shortAddress()
}

// ExtendedAddress returns the programmed extended address.
func (c *Chip) ExtendedAddress() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.extendedAddress()
}

// Register returns a short or long register without side effects. Like
// mrf.IO.ReadControlRegister, addresses up to mrf.MaxShortAddress are short.
func (c *Chip) Register(addr uint16) byte {
	c.lock.Lock()
	defer c.lock.Unlock()
	if mrf.IsShortAddress(addr) {
		return c.short[addr]
	}
	return c.long[addr&mrf.MaxLongAddress]
}

// Memory returns a copy of n octets of the long address space.
func (c *Chip) Memory(addr uint16, n int) []byte {
	c.lock.Lock()
	defer c.lock.Unlock()
	start := int(addr & mrf.MaxLongAddress)
	end := start + n
	if end > len(c.long) {
		end = len(c.long)
	}
	return append([]byte(nil), c.long[start:end]...)
}

// Stats returns the frame counters.
func (c *Chip) Stats() Stats {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.stats
}
