package chip

import (
	"time"

	"github.com/robotalks/mrf.go/pkg/l0/mrf"
	"github.com/robotalks/mrf.go/pkg/l0/spi"
)

// Node is a simulated chip with the driver stack on top of it.
type Node struct {
	Chip   *Chip
	Engine *spi.Engine
	MAC    *mrf.MAC
}

// NewNode creates a node named name. The chip settles instantly so the MAC
// never sleeps.
func NewNode(name string) *Node {
	c := New(name)
	e := spi.NewEngine(c)
	c.Vector = e.HandleInterrupt
	return &Node{
		Chip:   c,
		Engine: e,
		MAC:    mrf.NewMAC(e, c, func(time.Duration) {}),
	}
}

// Run delivers interrupts until no transfer is in flight.
func (n *Node) Run() {
	for n.Engine.Busy() {
		if n.Chip.Pump() == 0 {
			return
		}
	}
}
