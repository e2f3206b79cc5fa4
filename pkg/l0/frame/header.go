package frame

// Broadcast values of PAN ID and short address.
const (
	BroadcastPANID        = 0xffff
	BroadcastShortAddress = 0xffff
)

// Header is an 802.15.4 MAC header kept in wire format.
type Header struct {
	buf [MaxHeaderSize]byte
}

// NewHeader creates a header with the default content.
func NewHeader() *Header {
	h := &Header{}
	h.Init()
	return h
}

// ParseHeader decodes the header at the beginning of b.
// The returned header doesn't reference b.
func ParseHeader(b []byte) (*Header, error) {
	if len(b) < FrameControlSize {
		return nil, ErrTruncated
	}
	h := &Header{}
	size := HeaderSize(DecodeFrameControl([FrameControlSize]byte{b[0], b[1]}))
	if len(b) < size {
		return nil, ErrTruncated
	}
	copy(h.buf[:], b[:size])
	return h, nil
}

// Init resets the header to a data frame with short addresses, sequence
// number 0, broadcast PAN ID and all-zero addresses.
func (h *Header) Init() {
	h.buf = [MaxHeaderSize]byte{}
	h.setFrameControl(DefaultFrameControl)
	h.putField(FieldDestinationPANID, BroadcastPANID)
}

// FrameControl decodes the frame control field.
func (h *Header) FrameControl() FrameControl {
	return DecodeFrameControl([FrameControlSize]byte{h.buf[0], h.buf[1]})
}

// Size returns the current header length in octets.
func (h *Header) Size() int {
	return HeaderSize(h.FrameControl())
}

// FieldSpan returns the position of a field.
func (h *Header) FieldSpan(id FieldID) Span {
	return Layout(h.FrameControl())[id]
}

// Field returns a copy of the octets of a field, empty if absent.
func (h *Header) Field(id FieldID) []byte {
	span := h.FieldSpan(id)
	return append([]byte(nil), h.buf[span.Offset:span.End()]...)
}

// Bytes returns a copy of the header octets.
func (h *Header) Bytes() []byte {
	return h.AppendTo(nil)
}

// AppendTo appends the header octets to dst.
func (h *Header) AppendTo(dst []byte) []byte {
	return append(dst, h.buf[:h.Size()]...)
}

// SequenceNumber returns the sequence number and whether it's present.
func (h *Header) SequenceNumber() (byte, bool) {
	span := h.FieldSpan(FieldSequenceNumber)
	if span.Size == 0 {
		return 0, false
	}
	return h.buf[span.Offset], true
}

// PANID returns the PAN ID of the frame. When only the source PAN ID is
// carried, that one is returned.
func (h *Header) PANID() uint16 {
	spans := Layout(h.FrameControl())
	if spans[FieldDestinationPANID].Size > 0 {
		return uint16(h.fieldValue(spans[FieldDestinationPANID]))
	}
	return uint16(h.fieldValue(spans[FieldSourcePANID]))
}

// DestinationAddress returns a copy of the destination address octets.
func (h *Header) DestinationAddress() []byte {
	return h.Field(FieldDestinationAddress)
}

// SourceAddress returns a copy of the source address octets.
func (h *Header) SourceAddress() []byte {
	return h.Field(FieldSourceAddress)
}

// DestinationAddressValue decodes the destination address.
func (h *Header) DestinationAddressValue() uint64 {
	return h.fieldValue(h.FieldSpan(FieldDestinationAddress))
}

// SourceAddressValue decodes the source address.
func (h *Header) SourceAddressValue() uint64 {
	return h.fieldValue(h.FieldSpan(FieldSourceAddress))
}

// SetSequenceNumber stores the sequence number and makes it present.
func (h *Header) SetSequenceNumber(n byte) {
	h.update(func(fc *FrameControl) { fc.SequenceNumberSuppression = false })
	h.putField(FieldSequenceNumber, uint64(n))
}

// EnableSequenceNumberSuppression removes the sequence number.
func (h *Header) EnableSequenceNumberSuppression() {
	h.update(func(fc *FrameControl) { fc.SequenceNumberSuppression = true })
}

// DisableSequenceNumberSuppression makes the sequence number present again.
// A reintroduced sequence number is zero.
func (h *Header) DisableSequenceNumberSuppression() {
	h.update(func(fc *FrameControl) { fc.SequenceNumberSuppression = false })
}

// SetPANID stores the PAN ID in every PAN ID field present.
func (h *Header) SetPANID(id uint16) {
	h.putField(FieldDestinationPANID, uint64(id))
	h.putField(FieldSourcePANID, uint64(id))
}

// SetShortSourceAddress switches to a short source address.
func (h *Header) SetShortSourceAddress(addr uint16) {
	h.update(func(fc *FrameControl) { fc.SourceAddressingMode = AddressingModeShort })
	h.putField(FieldSourceAddress, uint64(addr))
}

// SetExtendedSourceAddress switches to an extended source address.
func (h *Header) SetExtendedSourceAddress(addr uint64) {
	h.update(func(fc *FrameControl) { fc.SourceAddressingMode = AddressingModeExtended })
	h.putField(FieldSourceAddress, addr)
}

// SetShortDestinationAddress switches to a short destination address.
func (h *Header) SetShortDestinationAddress(addr uint16) {
	h.update(func(fc *FrameControl) { fc.DestinationAddressingMode = AddressingModeShort })
	h.putField(FieldDestinationAddress, uint64(addr))
}

// SetExtendedDestinationAddress switches to an extended destination address.
func (h *Header) SetExtendedDestinationAddress(addr uint64) {
	h.update(func(fc *FrameControl) { fc.DestinationAddressingMode = AddressingModeExtended })
	h.putField(FieldDestinationAddress, addr)
}

// update changes the frame control and moves the fields to the new layout.
// PAN ID compression is cleared only when both addresses are extended.
func (h *Header) update(change func(fc *FrameControl)) {
	fc := h.FrameControl()
	from := Layout(fc)
	change(&fc)
	fc.PANIDCompression = !(fc.DestinationAddressingMode == AddressingModeExtended &&
		fc.SourceAddressingMode == AddressingModeExtended)
	to := Layout(fc)
	if to != from {
		h.move(from, to)
	}
	h.setFrameControl(fc)
}

// move places every field at its new span. Octets of a field that grows
// are zero, a field that shrinks keeps its low octets.
func (h *Header) move(from, to [NumFields]Span) {
	old := h.buf
	h.buf = [MaxHeaderSize]byte{}
	for id := FieldID(0); id < NumFields; id++ {
		size := from[id].Size
		if to[id].Size < size {
			size = to[id].Size
		}
		copy(h.buf[to[id].Offset:], old[from[id].Offset:from[id].Offset+size])
	}
}

func (h *Header) setFrameControl(fc FrameControl) {
	b := fc.Encode()
	copy(h.buf[:FrameControlSize], b[:])
}

func (h *Header) putField(id FieldID, v uint64) {
	span := h.FieldSpan(id)
	for n := 0; n < span.Size; n++ {
		h.buf[span.Offset+n] = byte(v >> (8 * uint(n)))
	}
}

func (h *Header) fieldValue(span Span) (v uint64) {
	for n := span.Size - 1; n >= 0; n-- {
		v = v<<8 | uint64(h.buf[span.Offset+n])
	}
	return
}
