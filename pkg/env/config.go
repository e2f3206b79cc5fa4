// Package env provides the configuration of a simulated node.
package env

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"

	"github.com/golang/glog"

	"github.com/robotalks/mrf.go/pkg/air/mqtt"
	"github.com/robotalks/mrf.go/pkg/air/websocket"
	"github.com/robotalks/mrf.go/pkg/l0/mrf"
	"github.com/robotalks/mrf.go/pkg/sim/chip"
)

// Config defines the radio and the medium of a node.
type Config struct {
	// MediumURL specifies the shared air, e.g. mqtt://host:port/topic-prefix
	// or ws://host:port/air of a websocket relay.
	// Empty keeps the air inside the process.
	MediumURL string
	NodeID    string

	Channel         uint
	PANID           uint
	ShortAddress    uint
	ExtendedAddress uint64
}

var defaultConfig = Config{
	Channel:      uint(mrf.DefaultChannel),
	PANID:        0xcafe,
	ShortAddress: 0x0001,
}

func init() {
	if val := os.Getenv("MRF_MQTT_URL"); val != "" {
		defaultConfig.MediumURL = val
	}
	if val := os.Getenv("MRF_NODE_ID"); val != "" {
		defaultConfig.NodeID = val
	}
	envUint("MRF_CHANNEL", 8, &defaultConfig.Channel)
	envUint("MRF_PAN_ID", 16, &defaultConfig.PANID)
	envUint("MRF_SHORT_ADDR", 16, &defaultConfig.ShortAddress)
	if val := os.Getenv("MRF_EXT_ADDR"); val != "" {
		if v, err := strconv.ParseUint(val, 0, 64); err == nil {
			defaultConfig.ExtendedAddress = v
		} else {
			glog.Warningf("ignore MRF_EXT_ADDR: %v", err)
		}
	}
}

func envUint(name string, bits int, out *uint) {
	if val := os.Getenv(name); val != "" {
		if v, err := strconv.ParseUint(val, 0, bits); err == nil {
			*out = uint(v)
		} else {
			glog.Warningf("ignore %s: %v", name, err)
		}
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.MediumURL, "medium", defaultConfig.MediumURL, "Shared air URL, e.g. mqtt://localhost:1883/mrf/ or ws://localhost:8802/air.")
	flag.StringVar(&defaultConfig.NodeID, "node", defaultConfig.NodeID, "Node ID on the shared air, default derived from machine ID.")
	flag.UintVar(&defaultConfig.Channel, "channel", defaultConfig.Channel, "Channel 11-26.")
	flag.UintVar(&defaultConfig.PANID, "pan", defaultConfig.PANID, "PAN ID.")
	flag.UintVar(&defaultConfig.ShortAddress, "short-addr", defaultConfig.ShortAddress, "Short source address.")
	flag.Uint64Var(&defaultConfig.ExtendedAddress, "ext-addr", defaultConfig.ExtendedAddress, "Extended source address, 0 derives one from machine ID.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Validate checks the values are in range.
func (c *Config) Validate() error {
	if c.Channel < uint(mrf.MinChannel) || c.Channel > uint(mrf.MaxChannel) {
		return fmt.Errorf("invalid channel %d", c.Channel)
	}
	if c.PANID > 0xffff {
		return fmt.Errorf("invalid PAN ID %#x", c.PANID)
	}
	if c.ShortAddress > 0xffff {
		return fmt.Errorf("invalid short address %#x", c.ShortAddress)
	}
	return nil
}

// MACConfig returns the radio configuration. A zero extended address is
// replaced by the one derived from the machine ID.
func (c *Config) MACConfig() mrf.Config {
	ext := c.ExtendedAddress
	if ext == 0 {
		ext = MachineExtendedAddress()
	}
	return mrf.Config{
		Channel:               uint8(c.Channel),
		PANID:                 uint16(c.PANID),
		ShortSourceAddress:    uint16(c.ShortAddress),
		ExtendedSourceAddress: ext,
	}
}

// MediumNodeID returns NodeID, or one derived from the machine ID.
func (c *Config) MediumNodeID() string {
	if c.NodeID != "" {
		return c.NodeID
	}
	return nodeIDFrom("", MachineID(), c.ExtendedAddress)
}

// Medium is the air a node transmits on.
type Medium interface {
	chip.Medium
	Attach(*chip.Chip)
}

// NewMedium creates the medium specified by MediumURL and connects it.
func (c *Config) NewMedium() (Medium, error) {
	if c.MediumURL == "" {
		return chip.NewLocalMedium(), nil
	}
	parsedURL, err := url.Parse(c.MediumURL)
	if err != nil {
		return nil, fmt.Errorf("invalid medium URL: %v", err)
	}
	switch parsedURL.Scheme {
	case "mqtt", "mqtts", "tcp", "ssl":
		m, err := mqtt.NewMedium(c.MediumURL, c.MediumNodeID())
		if err != nil {
			return nil, err
		}
		if err = m.Connect(); err != nil {
			return nil, fmt.Errorf("connect %s: %v", c.MediumURL, err)
		}
		return m, nil
	case "ws", "wss":
		m, err := websocket.Dial(c.MediumURL, c.MediumNodeID())
		if err != nil {
			return nil, fmt.Errorf("connect %s: %v", c.MediumURL, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown medium URL scheme: %q", parsedURL.Scheme)
	}
}

// MustNewMedium creates the medium and fails on error.
func (c *Config) MustNewMedium() Medium {
	m, err := c.NewMedium()
	if err != nil {
		log.Fatalln(err)
	}
	return m
}
