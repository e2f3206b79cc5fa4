package chip

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/mrf.go/pkg/cli/sh"
	"github.com/robotalks/mrf.go/pkg/l0/mrf"
)

// ParseRegister parses a register address, short up to 0x3f.
func ParseRegister(s string) (uint16, error) {
	addr, err := strconv.ParseUint(s, 0, 16)
	if err != nil || addr > mrf.MaxLongAddress {
		return 0, fmt.Errorf("invalid register %q", s)
	}
	return uint16(addr), nil
}

var (
	// RegCmd reads or writes a register through the bus.
	RegCmd = ishell.Cmd{
		Name:    "reg",
		Aliases: []string{"rg"},
		Help:    "ADDRESS [VALUE]",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("ADDRESS required"))
				return
			}
			addr, err := ParseRegister(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			io := sh.ShellFrom(c).Node.MAC.IO()
			if len(c.Args) > 1 {
				v, err := strconv.ParseUint(c.Args[1], 0, 8)
				if err != nil {
					c.Err(fmt.Errorf("Invalid VALUE: %v", err))
					return
				}
				if err = io.SetControlRegister(addr, byte(v)); err != nil {
					c.Err(err)
				}
				return
			}
			v, err := io.ReadControlRegister(addr)
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("%#03x = %#02x\n", addr, v)
		},
	}

	// StatsCmd prints the frame counters of the chip.
	StatsCmd = ishell.Cmd{
		Name: "stats",
		Help: "",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			s.Print(c, s.Node.Chip.Stats())
		},
	}
)

func init() {
	sh.AddCmds(
		&RegCmd,
		&StatsCmd,
	)
}
