// Package websocket shares the air between simulated chips through a
// websocket Relay.
package websocket

import (
	"io"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/mrf.go/pkg/air/msgs"
	"github.com/robotalks/mrf.go/pkg/sim/chip"
)

// Medium implements chip.Medium over a websocket connection to a Relay.
type Medium struct {
	NodeID string

	conn      *websocket.Conn
	local     *chip.LocalMedium
	writeLock sync.Mutex
	done      chan struct{}
}

// Dial connects the relay at url (ws:// or wss://).
func Dial(url, nodeID string) (*Medium, error) {
	conn, err := websocket.Dial(url, "", "http://localhost/")
	if err != nil {
		return nil, err
	}
	m := &Medium{
		NodeID: nodeID,
		conn:   conn,
		local:  chip.NewLocalMedium(),
		done:   make(chan struct{}),
	}
	go m.receive()
	return m, nil
}

// Local returns the medium of the chips in this process.
func (m *Medium) Local() *chip.LocalMedium {
	return m.local
}

// Attach puts a chip on the medium.
func (m *Medium) Attach(c *chip.Chip) {
	m.local.Attach(c)
	c.Medium = m
}

// Done is closed when the connection to the relay is gone.
func (m *Medium) Done() <-chan struct{} {
	return m.done
}

// Close implements io.Closer.
func (m *Medium) Close() error {
	return m.conn.Close()
}

// Transmit implements chip.Medium.
func (m *Medium) Transmit(from *chip.Chip, channel uint8, psdu []byte) error {
	m.local.Transmit(from, channel, psdu)
	frame := &msgs.AirFrame{
		Channel: uint32(channel),
		Sender:  m.NodeID,
		Psdu:    psdu,
		Lqi:     uint32(m.local.LQI),
		Rssi:    uint32(m.local.RSSI),
	}
	payload, err := frame.Encode()
	if err != nil {
		return err
	}
	m.writeLock.Lock()
	defer m.writeLock.Unlock()
	return websocket.Message.Send(m.conn, payload)
}

func (m *Medium) receive() {
	defer close(m.done)
	for {
		var pkt []byte
		if err := websocket.Message.Receive(m.conn, &pkt); err != nil {
			if err != io.EOF {
				glog.Warningf("relay connection: %v", err)
			}
			return
		}
		m.handleFrame(pkt)
	}
}

func (m *Medium) handleFrame(pkt []byte) {
	frame, err := msgs.DecodeAirFrame(pkt)
	if err != nil {
		glog.Warningf("ignore frame: %v", err)
		return
	}
	if frame.Sender == m.NodeID || frame.Channel > 0xff {
		return
	}
	n := m.local.Deliver(nil, uint8(frame.Channel), frame.Psdu, byte(frame.Lqi), byte(frame.Rssi))
	glog.V(3).Infof("frame from %s accepted by %d chips", frame.Sender, n)
}
