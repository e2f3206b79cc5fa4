package mrf

import (
	"context"
	"errors"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/mrf.go/pkg/l0/frame"
	"github.com/robotalks/mrf.go/pkg/l0/spi"
)

// DelayFunc blocks for the duration.
type DelayFunc func(time.Duration)

// Config is the radio configuration applied by Reconfigure.
type Config struct {
	// Channel is 11-26, 0 selects DefaultChannel.
	Channel               uint8
	PANID                 uint16
	ShortSourceAddress    uint16
	ExtendedSourceAddress uint64
}

// MAC sends and receives frames through an MRF24J40.
type MAC struct {
	io     *IO
	delay  DelayFunc
	config Config
	state  State
	// INTSTAT clears on read, bits seen but not consumed yet
	status  byte
	trigger [1]byte
}

// NewMAC creates the MAC for the chip selected by device.
func NewMAC(engine *spi.Engine, device spi.Peripheral, delay DelayFunc) *MAC {
	if delay == nil {
		delay = time.Sleep
	}
	m := &MAC{io: NewIO(engine, device), delay: delay}
	m.state.Init()
	m.trigger[0] = ValueTXNCONTrigger
	return m
}

// IO returns the register access of the chip.
func (m *MAC) IO() *IO {
	return m.io
}

// State returns the transmit state.
func (m *MAC) State() *State {
	return &m.state
}

// Config returns the configuration last applied.
func (m *MAC) Config() Config {
	return m.config
}

type initStep struct {
	name string
	run  func() error
}

// Reconfigure resets the chip and programs it with conf. It stops at the
// first step which fails, the error is an *InitError. The transmit state is
// reset to send from the short source address to the coordinator.
func (m *MAC) Reconfigure(conf Config) error {
	if conf.Channel == 0 {
		conf.Channel = DefaultChannel
	}
	channel, err := ChannelValue(conf.Channel)
	if err != nil {
		return &InitError{Step: "channel", Err: err}
	}
	steps := []initStep{
		{"reset", func() error {
			return m.io.SetControlRegister(RegSOFTRST, ValueFullSoftwareReset)
		}},
		{"initialization values", m.setInitializationValues},
		{"rx interrupt", func() error {
			return m.io.SetControlRegister(RegINTCON, ValueINTCONRxEnabledOnly)
		}},
		{"channel", func() error { return m.setChannelValue(channel) }},
		{"transmitter power", func() error {
			return m.io.SetControlRegister(RegRFCON3, ValueTxPowerMinus30dB)
		}},
		{"short source address", func() error {
			a := conf.ShortSourceAddress
			return m.io.WriteBlockingToShortAddress(uint8(RegSADRL), []byte{byte(a), byte(a >> 8)})
		}},
		{"extended source address", func() error {
			var b [8]byte
			for n := range b {
				b[n] = byte(conf.ExtendedSourceAddress >> (8 * uint(n)))
			}
			return m.io.WriteBlockingToShortAddress(uint8(RegEADR0), b[:])
		}},
		{"pan id", func() error {
			return m.io.WriteBlockingToShortAddress(uint8(RegPANIDL), []byte{byte(conf.PANID), byte(conf.PANID >> 8)})
		}},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			if errors.Is(err, spi.ErrBusBusy) {
				err = ErrHardwareBusy
			}
			glog.Warningf("mrf: reconfigure %s failed: %v", step.name, err)
			return &InitError{Step: step.name, Err: err}
		}
		glog.V(3).Infof("mrf: reconfigure %s done", step.name)
	}

	m.config, m.status = conf, 0
	m.state.Init()
	m.state.SetPANID(conf.PANID)
	m.state.SetShortSourceAddress(conf.ShortSourceAddress)
	m.state.SetExtendedDestinationAddress(0)
	glog.V(2).Infof("mrf: configured channel %d pan %#04x short %#04x extended %#016x",
		conf.Channel, conf.PANID, conf.ShortSourceAddress, conf.ExtendedSourceAddress)
	return nil
}

func (m *MAC) setInitializationValues() error {
	values := []struct {
		addr uint16
		v    byte
	}{
		{RegPACON2, ValuePACON2},
		{RegTXSTBL, ValueTXSTBL},
		{RegRFCON0, rfOptimize},
		{RegRFCON1, ValueRFCON1},
		{RegRFCON2, ValueRFCON2PLLEnabled},
		{RegRFCON6, ValueRFCON6},
		{RegRFCON7, ValueRFCON7},
		{RegRFCON8, ValueRFCON8},
		{RegSLPCON1, ValueSLPCON1},
		{RegBBREG2, ValueBBREG2EnergyOnly},
		{RegCCAEDTH, ValueCCAEDTH},
		{RegBBREG6, ValueBBREG6AppendRSSI},
	}
	for _, r := range values {
		if err := m.io.SetControlRegister(r.addr, r.v); err != nil {
			return err
		}
	}
	return nil
}

// SetChannel switches to another channel and restarts the RF state machine.
func (m *MAC) SetChannel(channel uint8) error {
	v, err := ChannelValue(channel)
	if err != nil {
		return err
	}
	if err = m.setChannelValue(v); err == nil {
		m.config.Channel = channel
	}
	return err
}

func (m *MAC) setChannelValue(v byte) error {
	if err := m.io.SetControlRegister(RegRFCON0, v); err != nil {
		return err
	}
	if err := m.io.SetControlRegister(RegRFCTL, ValueRFStateReset); err != nil {
		return err
	}
	if err := m.io.SetControlRegister(RegRFCTL, ValueRFStateOperating); err != nil {
		return err
	}
	m.delay(RFStateResetDelay)
	return nil
}

// SetShortDestinationAddress addresses following frames to a short address.
func (m *MAC) SetShortDestinationAddress(addr uint16) {
	m.state.SetShortDestinationAddress(addr)
}

// SetExtendedDestinationAddress addresses following frames to an extended
// address.
func (m *MAC) SetExtendedDestinationAddress(addr uint64) {
	m.state.SetExtendedDestinationAddress(addr)
}

// UseShortSourceAddress sends following frames from the configured short
// address.
func (m *MAC) UseShortSourceAddress() {
	m.state.SetShortSourceAddress(m.config.ShortSourceAddress)
}

// UseExtendedSourceAddress sends following frames from the configured
// extended address.
func (m *MAC) UseExtendedSourceAddress() {
	m.state.SetExtendedSourceAddress(m.config.ExtendedSourceAddress)
}

// SetSequenceNumber sets the sequence number of following frames.
func (m *MAC) SetSequenceNumber(n byte) {
	m.state.SetSequenceNumber(n)
}

// SetPayload sets the payload of following frames. The payload is
// referenced until it's sent.
func (m *MAC) SetPayload(payload []byte) error {
	return m.state.SetPayload(payload)
}

// SendBlocking writes the header and the payload into the transmit FIFO,
// triggers the transmission and waits until the chip reports it done.
// Nothing is written if the frame is too large.
func (m *MAC) SendBlocking(ctx context.Context) error {
	if err := m.state.CheckFrameSize(); err != nil {
		return err
	}
	header, payload := m.state.FullHeaderField(), m.state.PayloadField()
	if err := m.io.WriteBlockingToLongAddress(header.Address, header.Data); err != nil {
		return err
	}
	if err := m.io.WriteBlockingToLongAddress(payload.Address, payload.Data); err != nil {
		return err
	}
	if err := m.io.SetControlRegister(RegTXNCON, ValueTXNCONTrigger); err != nil {
		return err
	}
	m.state.ClearDirty()
	glog.V(3).Infof("mrf: sent header %d payload %d", len(header.Data)-lengthOctets, len(payload.Data))
	for {
		done, err := m.TransmitComplete()
		if err != nil || done {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// SendNonBlocking does what SendBlocking does with non-blocking writes and
// returns after the first octet. done is invoked from the completion
// interrupt once the transmission is triggered; use TransmitComplete to
// learn when it is on the air.
func (m *MAC) SendNonBlocking(done func(error)) error {
	if err := m.state.CheckFrameSize(); err != nil {
		return err
	}
	header, payload := m.state.FullHeaderField(), m.state.PayloadField()
	finish := func(err error) {
		if err != nil {
			glog.Errorf("mrf: send failed: %v", err)
		} else {
			m.state.ClearDirty()
		}
		if done != nil {
			done(err)
		}
	}
	triggerSend := func() {
		if err := m.io.WriteNonBlockingToShortAddress(uint8(RegTXNCON), m.trigger[:], func() { finish(nil) }); err != nil {
			finish(err)
		}
	}
	writePayload := func() {
		if err := m.io.WriteNonBlockingToLongAddress(payload.Address, payload.Data, triggerSend); err != nil {
			finish(err)
		}
	}
	return m.io.WriteNonBlockingToLongAddress(header.Address, header.Data, writePayload)
}

// TransmitComplete reports whether the chip finished the last transmission.
func (m *MAC) TransmitComplete() (bool, error) {
	return m.consumeStatus(IntTXN)
}

// NewPacketAvailable reports whether a frame was received.
func (m *MAC) NewPacketAvailable() (bool, error) {
	return m.consumeStatus(IntRX)
}

func (m *MAC) consumeStatus(bit uint) (bool, error) {
	v, err := m.io.ReadControlRegister(RegINTSTAT)
	if err != nil {
		return false, err
	}
	m.status |= v
	mask := byte(1) << bit
	set := m.status&mask != 0
	m.status &^= mask
	return set, nil
}

// ReceivedPacketSize returns the size of the received frame including the
// frame length octet.
func (m *MAC) ReceivedPacketSize() (int, error) {
	var size [1]byte
	if err := m.io.ReadBlockingFromLongAddress(RxFIFO, size[:]); err != nil {
		return 0, err
	}
	return int(size[0]) + frame.FrameLengthSize, nil
}

// FetchPacketBlocking copies the receive FIFO into buf.
func (m *MAC) FetchPacketBlocking(buf []byte) error {
	return m.io.ReadBlockingFromLongAddress(RxFIFO, buf)
}

// ReceivePacket fetches and decodes the received frame with its link
// quality.
func (m *MAC) ReceivePacket() (*frame.Packet, error) {
	size, err := m.ReceivedPacketSize()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size+frame.LinkQualitySize)
	if err = m.FetchPacketBlocking(buf); err != nil {
		return nil, err
	}
	return frame.ParsePacket(buf)
}

// EnablePromiscuousMode accepts every frame with a correct FCS.
func (m *MAC) EnablePromiscuousMode() error {
	return m.io.SetControlRegister(RegRXMCR, ValueRXMCRPromiscuous)
}

// DisablePromiscuousMode accepts only frames addressed to this node.
func (m *MAC) DisablePromiscuousMode() error {
	return m.io.SetControlRegister(RegRXMCR, 0)
}
