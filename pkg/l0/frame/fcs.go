package frame

import "github.com/sigurn/crc16"

// FCSSize is the length of the frame check sequence.
const FCSSize = 2

var fcsTable = crc16.MakeTable(crc16.CRC16_KERMIT)

// FCS computes the frame check sequence over the MAC header and payload.
func FCS(data []byte) uint16 {
	return crc16.Checksum(data, fcsTable)
}

// AppendFCS appends the frame check sequence of data to data.
func AppendFCS(data []byte) []byte {
	fcs := FCS(data)
	return append(data, byte(fcs), byte(fcs>>8))
}

// CheckFCS validates the trailing frame check sequence of a frame.
func CheckFCS(frame []byte) error {
	if len(frame) < FCSSize {
		return ErrTruncated
	}
	n := len(frame) - FCSSize
	crc := crc16.Init(fcsTable)
	crc = crc16.Update(crc, frame[:n], fcsTable)
	if crc16.Complete(crc, fcsTable) != uint16(frame[n])|uint16(frame[n+1])<<8 {
		return ErrBadFCS
	}
	return nil
}
