package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameControlEncoding(t *testing.T) {
	testCases := []struct {
		name   string
		fc     FrameControl
		expect [2]byte
	}{
		{name: "default", fc: DefaultFrameControl, expect: [2]byte{0x61, 0xa8}},
		{name: "zero", expect: [2]byte{0, 0}},
		{
			name: "all flags",
			fc: FrameControl{
				Type:                      FrameTypeCommand,
				SecurityEnabled:           true,
				FramePending:              true,
				AckRequest:                true,
				PANIDCompression:          true,
				SequenceNumberSuppression: true,
				IEPresent:                 true,
				DestinationAddressingMode: AddressingModeExtended,
				Version:                   FrameVersion2006,
				SourceAddressingMode:      AddressingModeExtended,
			},
			expect: [2]byte{0x7b, 0xdf},
		},
		{
			name: "extended both 2015",
			fc: FrameControl{
				Type:                      FrameTypeData,
				DestinationAddressingMode: AddressingModeExtended,
				Version:                   FrameVersion2015,
				SourceAddressingMode:      AddressingModeExtended,
			},
			expect: [2]byte{0x01, 0xec},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, tc.fc.Encode())
			require.Equal(t, tc.fc, DecodeFrameControl(tc.expect))
		})
	}
}

func TestLayoutPANIDPresence(t *testing.T) {
	const (
		none  = AddressingModeNone
		short = AddressingModeShort
		ext   = AddressingModeExtended
	)
	testCases := []struct {
		version  FrameVersion
		dest     AddressingMode
		src      AddressingMode
		compress bool
		destPAN  bool
		srcPAN   bool
	}{
		{FrameVersion2015, none, none, false, false, false},
		{FrameVersion2015, none, none, true, true, false},
		{FrameVersion2015, short, none, false, true, false},
		{FrameVersion2015, ext, none, true, false, false},
		{FrameVersion2015, none, short, false, false, true},
		{FrameVersion2015, none, ext, true, false, false},
		{FrameVersion2015, ext, ext, false, true, false},
		{FrameVersion2015, ext, ext, true, false, false},
		{FrameVersion2015, short, short, false, true, true},
		{FrameVersion2015, short, ext, false, true, true},
		{FrameVersion2015, ext, short, false, true, true},
		{FrameVersion2015, short, ext, true, true, false},
		{FrameVersion2015, ext, short, true, true, false},
		{FrameVersion2015, short, short, true, true, false},
		{FrameVersion2006, short, short, false, true, true},
		{FrameVersion2006, short, short, true, true, false},
		{FrameVersion2006, ext, ext, true, true, false},
		{FrameVersion2006, none, short, true, false, true},
		{FrameVersion2003, short, none, false, true, false},
	}
	for _, tc := range testCases {
		spans := Layout(FrameControl{
			Version:                   tc.version,
			DestinationAddressingMode: tc.dest,
			SourceAddressingMode:      tc.src,
			PANIDCompression:          tc.compress,
		})
		assert.Equal(t, tc.destPAN, spans[FieldDestinationPANID].Size == PANIDSize, "%+v", tc)
		assert.Equal(t, tc.srcPAN, spans[FieldSourcePANID].Size == PANIDSize, "%+v", tc)
	}
}

func TestLayoutOffsets(t *testing.T) {
	spans := Layout(FrameControl{
		Version:                   FrameVersion2006,
		DestinationAddressingMode: AddressingModeExtended,
		SourceAddressingMode:      AddressingModeExtended,
	})
	require.Equal(t, [NumFields]Span{
		{Offset: 0, Size: 2},
		{Offset: 2, Size: 1},
		{Offset: 3, Size: 2},
		{Offset: 5, Size: 8},
		{Offset: 13, Size: 2},
		{Offset: 15, Size: 8},
	}, spans)
	require.Equal(t, MaxHeaderSize, spans[NumFields-1].End())

	spans = Layout(FrameControl{SequenceNumberSuppression: true})
	for id := FieldSequenceNumber; id < NumFields; id++ {
		assert.Equal(t, Span{Offset: 2}, spans[id], id.String())
	}
	require.Equal(t, 2, HeaderSize(FrameControl{SequenceNumberSuppression: true}))
}
