package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAirFrameWireFormat(t *testing.T) {
	m := &AirFrame{Channel: 15, Sender: "n1", Psdu: []byte{0x61, 0xa8}, Lqi: 0xff, Rssi: 0x80}
	data, err := m.Encode()
	require.NoError(t, err)
	require.Equal(t, []byte{
		0x08, 15,
		0x12, 2, 'n', '1',
		0x1a, 2, 0x61, 0xa8,
		0x20, 0xff, 0x01,
		0x28, 0x80, 0x01,
	}, data)

	decoded, err := DecodeAirFrame(data)
	require.NoError(t, err)
	require.Equal(t, m, decoded)
}

func TestAirFrameDecodeInvalid(t *testing.T) {
	_, err := DecodeAirFrame([]byte{0x1a, 5, 1})
	require.Error(t, err)
}

func TestAirFrameString(t *testing.T) {
	m := &AirFrame{Channel: 11, Sender: "a"}
	require.Contains(t, m.String(), `sender:"a"`)
	m.Reset()
	require.Equal(t, AirFrame{}, *m)
}
