package mrf

// Register address spaces.
const (
	// MaxShortAddress is the last address of the short address space.
	MaxShortAddress = 0x3f
	// MaxLongAddress is the last address of the long address space.
	MaxLongAddress = 0x3ff
)

// IsShortAddress reports whether the address is in the short address space.
func IsShortAddress(addr uint16) bool {
	return addr <= MaxShortAddress
}

// WriteShortCommand encodes the command octet writing a short address.
func WriteShortCommand(addr uint8) byte {
	return (addr&MaxShortAddress)<<1 | 1
}

// ReadShortCommand encodes the command octet reading a short address.
func ReadShortCommand(addr uint8) byte {
	return (addr & MaxShortAddress) << 1
}

// WriteLongCommand encodes the command octets writing a long address.
func WriteLongCommand(addr uint16) [2]byte {
	return longCommand(addr, 0x10)
}

// ReadLongCommand encodes the command octets reading a long address.
func ReadLongCommand(addr uint16) [2]byte {
	return longCommand(addr, 0)
}

func longCommand(addr uint16, write uint16) [2]byte {
	v := 0x8000 | (addr&MaxLongAddress)<<5 | write
	return [2]byte{byte(v >> 8), byte(v)}
}

// ChannelValue returns the RFCON0 value selecting the channel.
func ChannelValue(channel uint8) (byte, error) {
	if channel < MinChannel || channel > MaxChannel {
		return 0, ErrInvalidChannel
	}
	return (channel-MinChannel)<<4 | rfOptimize, nil
}

// ChannelOf decodes the channel from an RFCON0 value.
func ChannelOf(v byte) uint8 {
	return v>>4 + MinChannel
}
