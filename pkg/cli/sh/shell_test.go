package sh

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/mrf.go/pkg/env"
	"github.com/robotalks/mrf.go/pkg/l0/frame"
	"github.com/robotalks/mrf.go/pkg/sim/chip"
)

func newTestShell(t *testing.T, medium *chip.LocalMedium, short uint) *Shell {
	s := &Shell{
		Config: &env.Config{
			NodeID:          "test",
			Channel:         12,
			PANID:           0x0101,
			ShortAddress:    short,
			ExtendedAddress: 0x1000 + uint64(short),
		},
		Medium: medium,
		Node:   chip.NewNode("test"),
	}
	medium.Attach(s.Node.Chip)
	require.NoError(t, s.Init())
	return s
}

func TestShellSendReceive(t *testing.T) {
	medium := chip.NewLocalMedium()
	a, b := newTestShell(t, medium, 1), newTestShell(t, medium, 2)
	a.Node.MAC.SetShortDestinationAddress(2)

	ctx := context.Background()
	require.NoError(t, a.Send(ctx, []byte("one"), true))
	p, err := b.Receive(ctx)
	require.NoError(t, err)
	info := FormatPacket(p)
	assert.Equal(t, "0001", info.Source)
	assert.Equal(t, hex.EncodeToString([]byte("one")), info.Payload)
	require.NotNil(t, info.Seq)
	assert.Equal(t, byte(0), *info.Seq)

	require.NoError(t, a.Send(ctx, []byte("two"), false))
	p, err = b.Receive(ctx)
	require.NoError(t, err)
	info = FormatPacket(p)
	assert.Equal(t, hex.EncodeToString([]byte("two")), info.Payload)
	assert.Equal(t, byte(1), *info.Seq)
	assert.False(t, a.Node.Engine.Busy())
}

func TestShellReceiveTimeout(t *testing.T) {
	s := newTestShell(t, chip.NewLocalMedium(), 1)
	ctx, cancel := context.WithTimeout(context.Background(), 3*PollInterval)
	defer cancel()
	start := time.Now()
	_, err := s.Receive(ctx)
	assert.Equal(t, context.DeadlineExceeded, err)
	assert.True(t, time.Since(start) >= 3*PollInterval)
}

func TestShellExtendedSource(t *testing.T) {
	medium := chip.NewLocalMedium()
	a, b := newTestShell(t, medium, 1), newTestShell(t, medium, 2)
	a.Node.MAC.UseExtendedSourceAddress()
	a.Node.MAC.SetExtendedDestinationAddress(0x1002)
	require.NoError(t, a.Send(context.Background(), []byte{0xbe, 0xef}, true))
	p, err := b.Receive(context.Background())
	require.NoError(t, err)
	info := FormatPacket(p)
	assert.Equal(t, "0000000000001001", info.Source)
	assert.Equal(t, "beef", info.Payload)
}

func TestShellFailedSendKeepsSequenceNumber(t *testing.T) {
	medium := chip.NewLocalMedium()
	a, b := newTestShell(t, medium, 1), newTestShell(t, medium, 2)
	a.Node.MAC.SetShortDestinationAddress(2)
	ctx := context.Background()

	assert.Error(t, a.Send(ctx, make([]byte, 200), true))
	require.NoError(t, a.Send(ctx, []byte("first"), true))
	p, err := b.Receive(ctx)
	require.NoError(t, err)
	require.NotNil(t, FormatPacket(p).Seq)
	assert.Equal(t, byte(0), *FormatPacket(p).Seq)

	a.Node.MAC.UseExtendedSourceAddress()
	a.Node.MAC.SetExtendedDestinationAddress(0x1002)
	assert.Error(t, a.Send(ctx, make([]byte, 110), false))

	a.Node.MAC.UseShortSourceAddress()
	a.Node.MAC.SetShortDestinationAddress(2)
	require.NoError(t, a.Send(ctx, []byte("second"), false))
	p, err = b.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, byte(1), *FormatPacket(p).Seq)
}

func TestShellInitInvalidConfig(t *testing.T) {
	s := &Shell{Config: &env.Config{Channel: 30}, Node: chip.NewNode("bad")}
	assert.Error(t, s.Init())
}

func TestShellSendTooLarge(t *testing.T) {
	s := newTestShell(t, chip.NewLocalMedium(), 1)
	err := s.Send(context.Background(), make([]byte, 200), true)
	assert.Error(t, err)
	s.Node.MAC.SetShortDestinationAddress(2)
	require.NoError(t, s.Send(context.Background(), make([]byte, frame.MaxPHYPacketSize-9-frame.FCSSize), true))
}
