package chip

import (
	"sync"
)

// Default link quality reported for frames delivered by a medium.
const (
	DefaultLQI  = 0xff
	DefaultRSSI = 0x80
)

// LocalMedium connects chips in the same process.
type LocalMedium struct {
	LQI  byte
	RSSI byte

	lock  sync.RWMutex
	chips []*Chip
}

// NewLocalMedium creates a LocalMedium with perfect link quality.
func NewLocalMedium() *LocalMedium {
	return &LocalMedium{LQI: DefaultLQI, RSSI: DefaultRSSI}
}

// Attach puts the chip on the medium.
func (m *LocalMedium) Attach(c *Chip) {
	m.lock.Lock()
	m.chips = append(m.chips, c)
	m.lock.Unlock()
	c.Medium = m
}

// Detach takes the chip off the medium.
func (m *LocalMedium) Detach(c *Chip) {
	m.lock.Lock()
	defer m.lock.Unlock()
	for n, chip := range m.chips {
		if chip == c {
			m.chips = append(m.chips[:n], m.chips[n+1:]...)
			break
		}
	}
}

// Transmit implements Medium.
func (m *LocalMedium) Transmit(from *Chip, channel uint8, psdu []byte) error {
	m.Deliver(from, channel, psdu, m.LQI, m.RSSI)
	return nil
}

// Deliver hands the frame to every attached chip except from and returns
// how many accepted it.
func (m *LocalMedium) Deliver(from *Chip, channel uint8, psdu []byte, lqi, rssi byte) (n int) {
	m.lock.RLock()
	chips := append([]*Chip(nil), m.chips...)
	m.lock.RUnlock()
	for _, c := range chips {
		if c != from && c.Receive(channel, psdu, lqi, rssi) {
			n++
		}
	}
	return
}
