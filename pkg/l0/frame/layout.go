package frame

// FieldID identifies a logical header field.
type FieldID int

// Header fields in wire order.
const (
	FieldFrameControl FieldID = iota
	FieldSequenceNumber
	FieldDestinationPANID
	FieldDestinationAddress
	FieldSourcePANID
	FieldSourceAddress
	NumFields
)

var fieldNames = [NumFields]string{
	"frame-control",
	"sequence-number",
	"destination-pan-id",
	"destination-address",
	"source-pan-id",
	"source-address",
}

// String implements fmt.Stringer.
func (f FieldID) String() string {
	if f >= 0 && f < NumFields {
		return fieldNames[f]
	}
	return "unknown"
}

// Span locates a field inside the header buffer.
type Span struct {
	Offset int
	Size   int
}

// End returns the offset right after the field.
func (s Span) End() int {
	return s.Offset + s.Size
}

// Layout computes the position of every field from the frame control.
// Absent fields have zero size and sit at the offset of the next field.
func Layout(fc FrameControl) (spans [NumFields]Span) {
	sizes := [NumFields]int{FieldFrameControl: FrameControlSize}
	if !fc.SequenceNumberSuppression {
		sizes[FieldSequenceNumber] = SequenceNumberSize
	}
	destPAN, srcPAN := panIDPresence(fc)
	if destPAN {
		sizes[FieldDestinationPANID] = PANIDSize
	}
	if srcPAN {
		sizes[FieldSourcePANID] = PANIDSize
	}
	sizes[FieldDestinationAddress] = fc.DestinationAddressingMode.AddressSize()
	sizes[FieldSourceAddress] = fc.SourceAddressingMode.AddressSize()

	offset := 0
	for n, size := range sizes {
		spans[n] = Span{Offset: offset, Size: size}
		offset += size
	}
	return
}

// HeaderSize returns the number of octets of a header with this frame control.
func HeaderSize(fc FrameControl) int {
	return Layout(fc)[NumFields-1].End()
}

func panIDPresence(fc FrameControl) (dest, src bool) {
	dm, sm := fc.DestinationAddressingMode, fc.SourceAddressingMode
	hasDest, hasSrc := dm.AddressSize() > 0, sm.AddressSize() > 0
	if fc.Version < FrameVersion2015 {
		return hasDest, hasSrc && !(hasDest && fc.PANIDCompression)
	}
	// IEEE 802.15.4-2015 table 7-2.
	switch {
	case !hasDest && !hasSrc:
		return fc.PANIDCompression, false
	case hasDest && !hasSrc:
		return !fc.PANIDCompression, false
	case !hasDest && hasSrc:
		return false, !fc.PANIDCompression
	case dm == AddressingModeExtended && sm == AddressingModeExtended:
		return !fc.PANIDCompression, false
	case fc.PANIDCompression:
		return true, false
	}
	return true, true
}
