package sh

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/mrf.go/pkg/env"
	"github.com/robotalks/mrf.go/pkg/l0/frame"
	"github.com/robotalks/mrf.go/pkg/sim/chip"
)

// Shell provides ishell backed interactive shell over a simulated node.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *env.Config
	Medium env.Medium
	Node   *chip.Node

	seq byte
}

// PacketInfo is the printable form of a received frame.
type PacketInfo struct {
	Source  string `json:"source"`
	Seq     *byte  `json:"seq,omitempty"`
	Payload string `json:"payload"`
	LQI     byte   `json:"lqi"`
	RSSI    byte   `json:"rssi"`
}

const (
	shellKey = "$shell"

	// PollInterval is how often recv checks for a frame.
	PollInterval = 10 * time.Millisecond
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&InitCmd,
		&InfoCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell with a node on medium.
func New(conf *env.Config, medium env.Medium) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
		Medium: medium,
		Node:   chip.NewNode(conf.NodeID),
	}
	medium.Attach(s.Node.Chip)
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(s.prompt())
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

func (s *Shell) prompt() string {
	conf := s.Node.MAC.Config()
	if conf.Channel == 0 {
		return "[down] > "
	}
	return fmt.Sprintf("[%d:%04x] > ", conf.Channel, conf.ShortSourceAddress)
}

// Init programs the chip with the configuration.
func (s *Shell) Init() error {
	if err := s.Config.Validate(); err != nil {
		return err
	}
	if err := s.Node.MAC.Reconfigure(s.Config.MACConfig()); err != nil {
		return err
	}
	if s.Shell != nil {
		s.Shell.SetPrompt(s.prompt())
	}
	return nil
}

// Send transmits payload with the next sequence number, which is used up
// only once the chip accepted the frame. The non-blocking
// send path is used when blocking is false, with interrupts delivered until
// the transmission is triggered.
func (s *Shell) Send(ctx context.Context, payload []byte, blocking bool) error {
	mac := s.Node.MAC
	mac.SetSequenceNumber(s.seq)
	if err := mac.SetPayload(payload); err != nil {
		return err
	}
	if blocking {
		err := mac.SendBlocking(ctx)
		if err == nil {
			s.seq++
		}
		return err
	}
	result := make(chan error, 1)
	if err := mac.SendNonBlocking(func(err error) { result <- err }); err != nil {
		return err
	}
	s.seq++
	s.Node.Run()
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive waits for a frame until ctx is done.
func (s *Shell) Receive(ctx context.Context) (*frame.Packet, error) {
	for {
		available, err := s.Node.MAC.NewPacketAvailable()
		if err != nil {
			return nil, err
		}
		if available {
			return s.Node.MAC.ReceivePacket()
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(PollInterval):
		}
	}
}

// FormatPacket converts a packet for display.
func FormatPacket(p *frame.Packet) PacketInfo {
	info := PacketInfo{
		Payload: hex.EncodeToString(p.Payload),
		LQI:     p.LQI,
		RSSI:    p.RSSI,
	}
	switch {
	case p.SourceAddressIsShort():
		info.Source = fmt.Sprintf("%04x", p.ShortSourceAddress())
	case p.SourceAddressIsExtended():
		info.Source = fmt.Sprintf("%016x", p.ExtendedSourceAddress())
	}
	if seq, ok := p.Header.SequenceNumber(); ok {
		info.Seq = &seq
	}
	return info
}

// Print prints v as JSON or with its String form.
func (s *Shell) Print(c *ishell.Context, v interface{}) {
	if s.OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	switch val := v.(type) {
	case PacketInfo:
		seq := "-"
		if val.Seq != nil {
			seq = fmt.Sprintf("%d", *val.Seq)
		}
		c.Printf("from %s seq %s lqi %d rssi %d: %s\n", val.Source, seq, val.LQI, val.RSSI, val.Payload)
	case fmt.Stringer:
		c.Println(val.String())
	default:
		c.Printf("%+v\n", val)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if err := s.Init(); err != nil {
		log.Fatalf("init failed: %v", err)
	}
	glog.Infof("node %q on channel %d", s.Config.NodeID, s.Config.Channel)

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// InitCmd programs the chip again.
	InitCmd = ishell.Cmd{
		Name:    "init",
		Aliases: []string{"reset"},
		Help:    "reset and program the chip",
		Func: func(c *ishell.Context) {
			if err := ShellFrom(c).Init(); err != nil {
				c.Err(err)
			}
		},
	}

	// InfoCmd prints the configuration.
	InfoCmd = ishell.Cmd{
		Name:    "info",
		Aliases: []string{"i"},
		Help:    "print the radio configuration",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			conf := s.Node.MAC.Config()
			s.Print(c, struct {
				Channel  uint8  `json:"channel"`
				PANID    string `json:"pan_id"`
				Short    string `json:"short"`
				Extended string `json:"extended"`
			}{
				Channel:  conf.Channel,
				PANID:    fmt.Sprintf("%04x", conf.PANID),
				Short:    fmt.Sprintf("%04x", conf.ShortSourceAddress),
				Extended: fmt.Sprintf("%016x", conf.ExtendedSourceAddress),
			})
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	conf := env.NewConfig()
	New(conf, conf.MustNewMedium()).Run(flag.Args()...)
}
