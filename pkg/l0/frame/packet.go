package frame

// Sizes of the radio specific octets around a received frame.
const (
	FrameLengthSize = 1
	LinkQualitySize = 2
	// MaxPHYPacketSize is the largest frame the PHY can carry.
	MaxPHYPacketSize = 127
)

// Packet is a frame read from the receive buffer of the radio: the frame
// length octet, the frame itself with its FCS, optionally followed by the
// link quality indicator and the received signal strength.
type Packet struct {
	Header  *Header
	Payload []byte
	FCS     uint16
	LQI     byte
	RSSI    byte
	// HasLinkQuality is set when LQI and RSSI were present.
	HasLinkQuality bool
}

// ParsePacket decodes a receive buffer image and validates the FCS.
// Payload references b.
func ParsePacket(b []byte) (*Packet, error) {
	if len(b) < FrameLengthSize {
		return nil, ErrTruncated
	}
	n := int(b[0])
	if len(b) < FrameLengthSize+n {
		return nil, ErrTruncated
	}
	p, err := ParseFrame(b[FrameLengthSize : FrameLengthSize+n])
	if err != nil {
		return nil, err
	}
	if rest := b[FrameLengthSize+n:]; len(rest) >= LinkQualitySize {
		p.LQI, p.RSSI, p.HasLinkQuality = rest[0], rest[1], true
	}
	return p, nil
}

// ParseFrame decodes a frame including its FCS as sent over the air.
func ParseFrame(frame []byte) (*Packet, error) {
	if err := CheckFCS(frame); err != nil {
		return nil, err
	}
	body := frame[:len(frame)-FCSSize]
	h, err := ParseHeader(body)
	if err != nil {
		return nil, err
	}
	return &Packet{
		Header:  h,
		Payload: body[h.Size():],
		FCS:     uint16(frame[len(body)]) | uint16(frame[len(body)+1])<<8,
	}, nil
}

// PayloadSize returns the length of the payload.
func (p *Packet) PayloadSize() int {
	return len(p.Payload)
}

// SourceAddressSize returns the length of the source address.
func (p *Packet) SourceAddressSize() int {
	return p.Header.FrameControl().SourceAddressingMode.AddressSize()
}

// SourceAddressIsShort reports whether the source address is short.
func (p *Packet) SourceAddressIsShort() bool {
	return p.SourceAddressSize() == ShortAddressSize
}

// SourceAddressIsExtended reports whether the source address is extended.
func (p *Packet) SourceAddressIsExtended() bool {
	return p.SourceAddressSize() == ExtendedAddressSize
}

// ExtendedSourceAddress returns the source address, a short one is
// returned as is in the low octets.
func (p *Packet) ExtendedSourceAddress() uint64 {
	return p.Header.SourceAddressValue()
}

// ShortSourceAddress returns the short source address, 0 if the source
// address isn't short.
func (p *Packet) ShortSourceAddress() uint16 {
	if !p.SourceAddressIsShort() {
		return 0
	}
	return uint16(p.Header.SourceAddressValue())
}
