// Command boardsim runs the control core against the simulated chip and
// serial port, with a small line-oriented console for poking at it: fire
// button edges, feed terminal input, step the loop, dump the register trace.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/Lolfaceftw/USART/board"
	"github.com/Lolfaceftw/USART/bus"
	"github.com/Lolfaceftw/USART/chip"
	"github.com/Lolfaceftw/USART/chip/sim"
	"github.com/Lolfaceftw/USART/serial"
)

// txWriter shows transmitted bytes quoted instead of letting escape
// sequences loose on the console.
type txWriter struct{}

func (txWriter) Write(p []byte) (int, error) {
	fmt.Printf("tx: %q\n", p)
	return len(p), nil
}

var keyNames = map[string][]byte{
	"ctrl-e": {0x05},
	"left":   {0x1b, '[', 'D'},
	"right":  {0x1b, '[', 'C'},
	"up":     {0x1b, '[', 'A'},
	"down":   {0x1b, '[', 'B'},
}

func main() {
	s, ch := sim.New()
	port := serial.NewSimPort(txWriter{})

	b := bus.NewBus(16, "+", "#")
	events := b.NewConnection("console")
	evSub := events.Subscribe(bus.T("board", "#"))

	cfg := board.DefaultConfig()
	cfg.Chip = ch
	cfg.Transport = port
	cfg.Conn = b.NewConnection("board")
	cfg.Wait = chip.BoundedWait(1024)
	core := board.New(cfg)

	// Button idles released (pull-up).
	s.FireEdge(cfg.ButtonLine, true)
	core.Bringup()

	fmt.Println("boardsim: press | release | click | send <text> | key <name> | tick [n] | trace | setting | led | quit")

	run := func(n int) {
		for i := 0; i < n; i++ {
			core.Tick()
		}
		for {
			select {
			case m := <-evSub.Channel():
				fmt.Printf("bus %s: %+v\n", strings.Join(m.Topic, "/"), m.Payload)
			default:
				return
			}
		}
	}
	run(4)

	in := bufio.NewScanner(os.Stdin)
	for fmt.Print("> "); in.Scan(); fmt.Print("> ") {
		args, err := shlex.Split(in.Text())
		if err != nil {
			fmt.Println("parse:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "press":
			s.FireEdge(cfg.ButtonLine, false)
			run(4)
		case "release":
			s.FireEdge(cfg.ButtonLine, true)
			run(4)
		case "click":
			s.FireEdge(cfg.ButtonLine, false)
			run(4)
			s.FireEdge(cfg.ButtonLine, true)
			run(4)
		case "send":
			port.Feed([]byte(strings.Join(args[1:], " ")))
			run(4)
		case "key":
			if len(args) < 2 {
				fmt.Println("key: name required")
				continue
			}
			seq, ok := keyNames[args[1]]
			if !ok {
				fmt.Println("key: unknown name", args[1])
				continue
			}
			port.Feed(seq)
			run(4)
		case "tick":
			n := 1
			if len(args) > 1 {
				if v, err := strconv.Atoi(args[1]); err == nil {
					n = v
				}
			}
			run(n)
		case "trace":
			for i, op := range s.Trace() {
				fmt.Printf("%3d %s\n", i, op)
			}
			if v := s.Violations(); len(v) > 0 {
				fmt.Println("violations:", v)
			}
		case "setting":
			fmt.Println(core.Setting())
		case "led":
			fmt.Println("led high:", s.OutLevel(cfg.LEDPin))
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command:", args[0])
		}
	}
}
