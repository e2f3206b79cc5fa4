package radio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddress(t *testing.T) {
	testCases := []struct {
		in       string
		addr     uint64
		extended bool
		err      bool
	}{
		{in: "1234", addr: 0x1234},
		{in: "0xFFFF", addr: 0xffff},
		{in: "1", addr: 1},
		{in: "00001", addr: 1, extended: true},
		{in: "0102030405060708", addr: 0x0102030405060708, extended: true},
		{in: "xyz", err: true},
		{in: "", err: true},
	}
	for _, tc := range testCases {
		addr, extended, err := ParseAddress(tc.in)
		if tc.err {
			assert.Error(t, err, tc.in)
			continue
		}
		assert.NoError(t, err, tc.in)
		assert.Equal(t, tc.addr, addr, tc.in)
		assert.Equal(t, tc.extended, extended, tc.in)
	}
}
