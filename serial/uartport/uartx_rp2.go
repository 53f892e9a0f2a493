//go:build rp2040 || rp2350

package uartport

import (
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

// DefaultPort configures uartx.UART0 on the board-default pins and wraps it.
// uartx keeps TX interrupt-driven, so Service never spins on the FIFO.
func DefaultPort(baud uint32) *Port {
	hw := uartx.UART0
	_ = hw.Configure(uartx.UARTConfig{
		BaudRate: baud,
		TX:       machine.UART_TX_PIN,
		RX:       machine.UART_RX_PIN,
	})
	return New(hw)
}
