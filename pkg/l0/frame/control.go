package frame

// FrameType is the frame type subfield.
type FrameType uint8

// Frame types.
const (
	FrameTypeBeacon       FrameType = 0
	FrameTypeData         FrameType = 1
	FrameTypeAck          FrameType = 2
	FrameTypeCommand      FrameType = 3
	FrameTypeMultipurpose FrameType = 5
	FrameTypeFragment     FrameType = 6
	FrameTypeExtended     FrameType = 7
)

// AddressingMode is the addressing mode subfield.
type AddressingMode uint8

// Addressing modes.
const (
	AddressingModeNone     AddressingMode = 0
	AddressingModeShort    AddressingMode = 2
	AddressingModeExtended AddressingMode = 3
)

// AddressSize returns the number of octets of an address in this mode.
func (m AddressingMode) AddressSize() int {
	switch m {
	case AddressingModeShort:
		return ShortAddressSize
	case AddressingModeExtended:
		return ExtendedAddressSize
	}
	return 0
}

// FrameVersion is the frame version subfield.
type FrameVersion uint8

// Frame versions.
const (
	FrameVersion2003 FrameVersion = 0
	FrameVersion2006 FrameVersion = 1
	FrameVersion2015 FrameVersion = 2
)

// Sizes of header fields.
const (
	FrameControlSize    = 2
	SequenceNumberSize  = 1
	PANIDSize           = 2
	ShortAddressSize    = 2
	ExtendedAddressSize = 8
	// MaxHeaderSize covers every combination of the fields above.
	MaxHeaderSize = FrameControlSize + SequenceNumberSize + 2*PANIDSize + 2*ExtendedAddressSize
)

const (
	fcTypeMask       = 0x0007
	fcSecurity       = 1 << 3
	fcPending        = 1 << 4
	fcAckRequest     = 1 << 5
	fcPANIDCompress  = 1 << 6
	fcSeqSuppression = 1 << 8
	fcIEPresent      = 1 << 9
	fcDestModeShift  = 10
	fcVersionShift   = 12
	fcSrcModeShift   = 14
)

// FrameControl is the decoded frame control field.
type FrameControl struct {
	Type                      FrameType
	SecurityEnabled           bool
	FramePending              bool
	AckRequest                bool
	PANIDCompression          bool
	SequenceNumberSuppression bool
	IEPresent                 bool
	DestinationAddressingMode AddressingMode
	Version                   FrameVersion
	SourceAddressingMode      AddressingMode
}

// DefaultFrameControl is the frame control of a freshly initialized header:
// a 2015 data frame with acknowledgment requested, PAN ID compression and
// short addresses on both ends.
var DefaultFrameControl = FrameControl{
	Type:                      FrameTypeData,
	AckRequest:                true,
	PANIDCompression:          true,
	DestinationAddressingMode: AddressingModeShort,
	Version:                   FrameVersion2015,
	SourceAddressingMode:      AddressingModeShort,
}

// DecodeFrameControl decodes the two octets of the frame control field.
func DecodeFrameControl(b [FrameControlSize]byte) (fc FrameControl) {
	v := uint16(b[0]) | uint16(b[1])<<8
	fc.Type = FrameType(v & fcTypeMask)
	fc.SecurityEnabled = v&fcSecurity != 0
	fc.FramePending = v&fcPending != 0
	fc.AckRequest = v&fcAckRequest != 0
	fc.PANIDCompression = v&fcPANIDCompress != 0
	fc.SequenceNumberSuppression = v&fcSeqSuppression != 0
	fc.IEPresent = v&fcIEPresent != 0
	fc.DestinationAddressingMode = AddressingMode((v >> fcDestModeShift) & 3)
	fc.Version = FrameVersion((v >> fcVersionShift) & 3)
	fc.SourceAddressingMode = AddressingMode((v >> fcSrcModeShift) & 3)
	return
}

// Uint16 returns the frame control field as a number.
func (fc FrameControl) Uint16() uint16 {
	v := uint16(fc.Type) & fcTypeMask
	if fc.SecurityEnabled {
		v |= fcSecurity
	}
	if fc.FramePending {
		v |= fcPending
	}
	if fc.AckRequest {
		v |= fcAckRequest
	}
	if fc.PANIDCompression {
		v |= fcPANIDCompress
	}
	if fc.SequenceNumberSuppression {
		v |= fcSeqSuppression
	}
	if fc.IEPresent {
		v |= fcIEPresent
	}
	v |= uint16(fc.DestinationAddressingMode&3) << fcDestModeShift
	v |= uint16(fc.Version&3) << fcVersionShift
	v |= uint16(fc.SourceAddressingMode&3) << fcSrcModeShift
	return v
}

// Encode returns the two octets of the frame control field.
func (fc FrameControl) Encode() [FrameControlSize]byte {
	v := fc.Uint16()
	return [FrameControlSize]byte{byte(v), byte(v >> 8)}
}
