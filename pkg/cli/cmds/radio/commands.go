package radio

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/mrf.go/pkg/cli/sh"
)

// DefaultTimeout bounds send and recv.
const DefaultTimeout = time.Second

// ParseAddress parses a hex address. Up to 4 digits is a short address,
// more is an extended one.
func ParseAddress(s string) (addr uint64, extended bool, err error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	if addr, err = strconv.ParseUint(s, 16, 64); err != nil {
		return 0, false, fmt.Errorf("invalid address %q", s)
	}
	return addr, len(s) > 4, nil
}

func timeout(c *ishell.Context, n int) (context.Context, context.CancelFunc, error) {
	d := DefaultTimeout
	if len(c.Args) > n {
		var err error
		if d, err = time.ParseDuration(c.Args[n]); err != nil {
			return nil, nil, fmt.Errorf("Invalid TIMEOUT: %v", err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), d)
	return ctx, cancel, nil
}

func sendCmd(blocking bool) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if len(c.Args) < 1 {
			c.Err(fmt.Errorf("TEXT required"))
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
		defer cancel()
		if err := sh.ShellFrom(c).Send(ctx, []byte(strings.Join(c.Args, " ")), blocking); err != nil {
			c.Err(err)
			return
		}
		c.Println("OK")
	}
}

var (
	// ChannelCmd switches channel.
	ChannelCmd = ishell.Cmd{
		Name:    "channel",
		Aliases: []string{"ch"},
		Help:    "CHANNEL(11-26)",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("CHANNEL required"))
				return
			}
			ch, err := strconv.ParseUint(c.Args[0], 10, 8)
			if err != nil {
				c.Err(fmt.Errorf("Invalid CHANNEL: %v", err))
				return
			}
			if err = sh.ShellFrom(c).Node.MAC.SetChannel(uint8(ch)); err != nil {
				c.Err(err)
			}
		},
	}

	// DestCmd sets the destination address.
	DestCmd = ishell.Cmd{
		Name:    "dest",
		Aliases: []string{"d"},
		Help:    "ADDRESS(hex, >4 digits for extended)",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("ADDRESS required"))
				return
			}
			addr, extended, err := ParseAddress(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			mac := sh.ShellFrom(c).Node.MAC
			if extended {
				mac.SetExtendedDestinationAddress(addr)
			} else {
				mac.SetShortDestinationAddress(uint16(addr))
			}
		},
	}

	// SrcCmd selects the source address.
	SrcCmd = ishell.Cmd{
		Name: "src",
		Help: "short|ext",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("short or ext required"))
				return
			}
			mac := sh.ShellFrom(c).Node.MAC
			switch c.Args[0] {
			case "short":
				mac.UseShortSourceAddress()
			case "ext", "extended":
				mac.UseExtendedSourceAddress()
			default:
				c.Err(fmt.Errorf("unknown source address %q", c.Args[0]))
			}
		},
	}

	// SendCmd sends a frame and waits until it's on the air.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "TEXT...",
		Func:    sendCmd(true),
	}

	// SendNonBlockingCmd sends a frame through the interrupt driven path.
	SendNonBlockingCmd = ishell.Cmd{
		Name:    "sendnb",
		Aliases: []string{"snb"},
		Help:    "TEXT...",
		Func:    sendCmd(false),
	}

	// RecvCmd waits for a frame.
	RecvCmd = ishell.Cmd{
		Name:    "recv",
		Aliases: []string{"r"},
		Help:    "[TIMEOUT]",
		Func: func(c *ishell.Context) {
			ctx, cancel, err := timeout(c, 0)
			if err != nil {
				c.Err(err)
				return
			}
			defer cancel()
			s := sh.ShellFrom(c)
			p, err := s.Receive(ctx)
			if err != nil {
				c.Err(err)
				return
			}
			s.Print(c, sh.FormatPacket(p))
		},
	}

	// PromiscCmd switches promiscuous mode.
	PromiscCmd = ishell.Cmd{
		Name: "promisc",
		Help: "on|off",
		Func: func(c *ishell.Context) {
			mac := sh.ShellFrom(c).Node.MAC
			var err error
			switch {
			case len(c.Args) < 1:
				err = fmt.Errorf("on or off required")
			case c.Args[0] == "on":
				err = mac.EnablePromiscuousMode()
			case c.Args[0] == "off":
				err = mac.DisablePromiscuousMode()
			default:
				err = fmt.Errorf("unknown mode %q", c.Args[0])
			}
			if err != nil {
				c.Err(err)
			}
		},
	}
)

func init() {
	sh.AddCmds(
		&ChannelCmd,
		&DestCmd,
		&SrcCmd,
		&SendCmd,
		&SendNonBlockingCmd,
		&RecvCmd,
		&PromiscCmd,
	)
}
