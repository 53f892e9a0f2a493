// Package uartport adapts a byte-stream UART to the descriptor-based
// transport contract. It accepts any tinygo.org/x/drivers UART, so the same
// adapter serves hardware ports and host test doubles.
package uartport

import (
	"tinygo.org/x/drivers"

	"github.com/Lolfaceftw/USART/errcode"
	"github.com/Lolfaceftw/USART/serial"
)

// Port drives one UART. Not safe for concurrent use; the control core owns it
// from a single cooperative context.
type Port struct {
	u drivers.UART

	txSet [serial.MaxTxDescriptors]serial.TxDescriptor
	txN   int
	busy  bool

	rx *serial.RxDescriptor
}

func New(u drivers.UART) *Port {
	return &Port{u: u}
}

func (p *Port) SubmitTransmit(descs []serial.TxDescriptor) bool {
	if p.busy {
		return false
	}
	if len(descs) == 0 || len(descs) > serial.MaxTxDescriptors {
		return false
	}
	p.txN = copy(p.txSet[:], descs)
	p.busy = true
	return true
}

func (p *Port) TransmitBusy() bool { return p.busy }

func (p *Port) SubmitReceive(d *serial.RxDescriptor) error {
	if d == nil || len(d.Buf) == 0 {
		return errcode.InvalidParams
	}
	if p.rx != nil && p.rx != d {
		return errcode.RxArmed
	}
	p.rx = d
	return nil
}

func (p *Port) Service() {
	// Drain the pending descriptor set. The underlying writer owns pacing;
	// the set stays a single ordered unit.
	if p.busy {
		for i := 0; i < p.txN; i++ {
			if len(p.txSet[i].Buf) == 0 {
				continue
			}
			if _, err := p.u.Write(p.txSet[i].Buf); err != nil {
				break
			}
		}
		p.txN = 0
		p.busy = false
	}

	// Surface any buffered receive bytes as one data completion.
	if p.rx != nil && p.rx.Kind == serial.CompletionNone {
		n := p.u.Buffered()
		if n <= 0 {
			return
		}
		if n > len(p.rx.Buf) {
			n = len(p.rx.Buf)
		}
		got, _ := p.u.Read(p.rx.Buf[:n])
		if got > 0 {
			p.rx.Kind = serial.CompletionData
			p.rx.Len = got
			p.rx = nil
		}
	}
}
