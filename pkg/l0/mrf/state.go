package mrf

import (
	"github.com/robotalks/mrf.go/pkg/l0/frame"
)

// DirtyFields is the set of things changed since the last send.
type DirtyFields uint16

// Dirty bits. Header fields use the bit of their frame.FieldID.
const (
	DirtyFrameControl       = DirtyFields(1 << frame.FieldFrameControl)
	DirtySequenceNumber     = DirtyFields(1 << frame.FieldSequenceNumber)
	DirtyDestinationPANID   = DirtyFields(1 << frame.FieldDestinationPANID)
	DirtyDestinationAddress = DirtyFields(1 << frame.FieldDestinationAddress)
	DirtySourcePANID        = DirtyFields(1 << frame.FieldSourcePANID)
	DirtySourceAddress      = DirtyFields(1 << frame.FieldSourceAddress)
	DirtyPayload            = DirtyFields(1 << frame.NumFields)

	dirtyPANID = DirtyDestinationPANID | DirtySourcePANID
)

// Has reports whether any of the bits is set.
func (d DirtyFields) Has(bits DirtyFields) bool {
	return d&bits != 0
}

// Field is a piece of chip memory to be written.
type Field struct {
	Address uint16
	Data    []byte
}

// Size returns the number of octets.
func (f Field) Size() int {
	return len(f.Data)
}

const lengthOctets = 2

// State keeps the transmit header and payload of the chip and tracks the
// changes not yet written.
type State struct {
	header  frame.Header
	payload []byte
	dirty   DirtyFields
	// header size when the chip was last in sync, 0 if never
	syncedSize int

	fields []Field
	cursor int
}

// NewState creates an initialized State.
func NewState() *State {
	s := &State{}
	s.Init()
	return s
}

// Init resets the header, drops the payload and clears the dirty set.
func (s *State) Init() {
	s.header.Init()
	s.payload, s.dirty, s.syncedSize = nil, 0, 0
	s.fields, s.cursor = nil, 0
}

// Header returns a copy of the current header.
func (s *State) Header() frame.Header {
	return s.header
}

// HeaderSize returns the length of the current header.
func (s *State) HeaderSize() int {
	return s.header.Size()
}

// Payload returns the payload.
func (s *State) Payload() []byte {
	return s.payload
}

// Dirty returns the set of changes not yet sent.
func (s *State) Dirty() DirtyFields {
	return s.dirty
}

// ClearDirty marks the chip in sync with the state.
func (s *State) ClearDirty() {
	s.dirty, s.syncedSize = 0, s.header.Size()
	s.fields, s.cursor = nil, 0
}

// SetSequenceNumber sets the sequence number.
func (s *State) SetSequenceNumber(n byte) {
	s.header.SetSequenceNumber(n)
	s.dirty |= DirtyFrameControl | DirtySequenceNumber
}

// EnableSequenceNumberSuppression removes the sequence number.
func (s *State) EnableSequenceNumberSuppression() {
	s.header.EnableSequenceNumberSuppression()
	s.dirty |= DirtyFrameControl | DirtySequenceNumber
}

// DisableSequenceNumberSuppression makes the sequence number present.
func (s *State) DisableSequenceNumberSuppression() {
	s.header.DisableSequenceNumberSuppression()
	s.dirty |= DirtyFrameControl | DirtySequenceNumber
}

// SetPANID sets the PAN ID.
func (s *State) SetPANID(id uint16) {
	s.header.SetPANID(id)
	s.dirty |= dirtyPANID
}

// SetShortSourceAddress uses a short source address.
func (s *State) SetShortSourceAddress(addr uint16) {
	s.header.SetShortSourceAddress(addr)
	s.dirty |= DirtyFrameControl | DirtySourceAddress
}

// SetExtendedSourceAddress uses an extended source address.
func (s *State) SetExtendedSourceAddress(addr uint64) {
	s.header.SetExtendedSourceAddress(addr)
	s.dirty |= DirtyFrameControl | DirtySourceAddress
}

// SetShortDestinationAddress uses a short destination address.
func (s *State) SetShortDestinationAddress(addr uint16) {
	s.header.SetShortDestinationAddress(addr)
	s.dirty |= DirtyFrameControl | DirtyDestinationAddress
}

// SetExtendedDestinationAddress uses an extended destination address.
func (s *State) SetExtendedDestinationAddress(addr uint64) {
	s.header.SetExtendedDestinationAddress(addr)
	s.dirty |= DirtyFrameControl | DirtyDestinationAddress
}

// SetPayload keeps a reference to payload, which must stay untouched until
// it's sent.
func (s *State) SetPayload(payload []byte) error {
	if !s.fits(s.header.Size(), payload) {
		return ErrPayloadTooLarge
	}
	s.payload = payload
	s.dirty |= DirtyPayload
	return nil
}

// CheckFrameSize fails with ErrPayloadTooLarge if the header grew since the
// payload was set and the frame no longer fits.
func (s *State) CheckFrameSize() error {
	if !s.fits(s.header.Size(), s.payload) {
		return ErrPayloadTooLarge
	}
	return nil
}

func (s *State) fits(headerSize int, payload []byte) bool {
	return len(payload) <= MaxPayloadSize &&
		headerSize+len(payload)+frame.FCSSize <= frame.MaxPHYPacketSize
}

// FullHeaderField covers the length octets and the whole header.
func (s *State) FullHeaderField() Field {
	m := s.header.Size()
	data := make([]byte, lengthOctets, lengthOctets+m)
	data[0], data[1] = byte(m), byte(m+len(s.payload))
	return Field{Address: TxNormalFIFO, Data: s.header.AppendTo(data)}
}

// PayloadField covers the payload right after the header.
func (s *State) PayloadField() Field {
	return Field{
		Address: TxNormalFIFO + lengthOctets + uint16(s.header.Size()),
		Data:    s.payload,
	}
}

// Rewind restarts the iteration over the dirty fields.
func (s *State) Rewind() {
	s.fields, s.cursor = s.dirtyFields(), -1
}

// NextField moves to the next dirty field, false when there is none left.
// Iteration doesn't change the dirty set.
func (s *State) NextField() bool {
	if s.fields == nil {
		s.Rewind()
	}
	if s.cursor < len(s.fields) {
		s.cursor++
	}
	return s.cursor < len(s.fields)
}

// CurrentField returns the field NextField moved to.
func (s *State) CurrentField() Field {
	if s.cursor < 0 || s.cursor >= len(s.fields) {
		return Field{}
	}
	return s.fields[s.cursor]
}

// dirtyFields lists what needs writing in chip memory order. Once the
// header size differs from what the chip holds, the whole header moves and
// is written in full.
func (s *State) dirtyFields() []Field {
	fields := []Field{}
	if s.dirty == 0 {
		return fields
	}
	size := s.header.Size()
	resized := size != s.syncedSize
	full := s.FullHeaderField()
	if resized || s.dirty.Has(DirtyPayload) {
		fields = append(fields, Field{Address: full.Address, Data: full.Data[:lengthOctets]})
	}
	if resized {
		fields = append(fields, Field{Address: full.Address + lengthOctets, Data: full.Data[lengthOctets:]})
	} else {
		for id := frame.FieldFrameControl; id < frame.NumFields; id++ {
			span := s.header.FieldSpan(id)
			if !s.dirty.Has(DirtyFields(1<<id)) || span.Size == 0 {
				continue
			}
			fields = append(fields, Field{
				Address: full.Address + lengthOctets + uint16(span.Offset),
				Data:    full.Data[lengthOctets+span.Offset : lengthOctets+span.End()],
			})
		}
	}
	if resized || s.dirty.Has(DirtyPayload) {
		fields = append(fields, s.PayloadField())
	}
	return fields
}
