//go:build rp2040 || rp2350

// Command uart-echo exercises the descriptor transport on a Pico-class
// board: it paints a greeting as one multi-descriptor set, then echoes every
// received chunk back as a hex dump.
package main

import (
	"time"

	"github.com/Lolfaceftw/USART/serial"
	"github.com/Lolfaceftw/USART/serial/uartport"
	"github.com/Lolfaceftw/USART/x/conv"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	port := uartport.DefaultPort(115200)

	greeting := []serial.TxDescriptor{
		{Buf: []byte("uart-echo ready\r\n")},
		{Buf: []byte("type something:\r\n")},
	}
	for !port.SubmitTransmit(greeting) {
		port.Service()
	}

	var rxBuf [16]byte
	var lineBuf [64]byte
	rx := serial.RxDescriptor{Buf: rxBuf[:]}
	if err := port.SubmitReceive(&rx); err != nil {
		println("arm:", err.Error())
		return
	}

	for {
		port.Service()
		if rx.Kind != serial.CompletionData {
			time.Sleep(time.Millisecond)
			continue
		}

		line := conv.AppendHexDump(lineBuf[:0], rx.Buf[:rx.Len], 0)
		line = append(line, '\r', '\n')
		out := []serial.TxDescriptor{{Buf: line}}
		for !port.SubmitTransmit(out) {
			port.Service()
		}
		// lineBuf is reused next iteration; drain before then.
		for port.TransmitBusy() {
			port.Service()
		}

		rx.Kind = serial.CompletionNone
		if err := port.SubmitReceive(&rx); err != nil {
			println("rearm:", err.Error())
			return
		}
	}
}
