//go:build pic32cm

// Command board-main is the on-target firmware image: bring the chip up,
// then run the event loop forever.
package main

import (
	"machine"

	"github.com/Lolfaceftw/USART/board"
	"github.com/Lolfaceftw/USART/chip/pic32cm"
	"github.com/Lolfaceftw/USART/serial/uartport"
)

func main() {
	cfg := board.DefaultConfig()
	cfg.Chip = pic32cm.New()
	cfg.Transport = uartport.New(machine.Serial)

	core := board.New(cfg)
	core.Bringup()
	println("boot")

	for {
		core.Tick()
	}
}
