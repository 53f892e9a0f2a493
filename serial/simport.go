package serial

import (
	"io"
	"sync"

	"github.com/Lolfaceftw/USART/errcode"
)

// SimPort is an in-memory Transport for hosted builds and tests. Completed
// transmissions are written to out; received bytes are injected with Feed.
// A configurable transmit delay keeps the port busy for n Service calls per
// accepted set, which is how coalescer retry behaviour is exercised.
type SimPort struct {
	mu sync.Mutex

	out       io.Writer
	txPending [][]byte
	busyLeft  int
	txDelay   int

	rx    *RxDescriptor
	feed  []byte
	brk   bool
	stats SimStats
}

// SimStats counts observable transport activity.
type SimStats struct {
	Accepted int // descriptor sets accepted
	Rejected int // submissions rejected while busy
	RxServed int // receive completions surfaced
}

func NewSimPort(out io.Writer) *SimPort {
	return &SimPort{out: out}
}

// SetTransmitDelay makes each accepted set keep the port busy for n Service
// calls before completion. Zero completes on the next Service.
func (p *SimPort) SetTransmitDelay(n int) {
	p.mu.Lock()
	p.txDelay = n
	p.mu.Unlock()
}

func (p *SimPort) Stats() SimStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Feed injects bytes to complete the armed (or a future) receive.
func (p *SimPort) Feed(b []byte) {
	p.mu.Lock()
	p.feed = append(p.feed, b...)
	p.mu.Unlock()
}

// Break injects a non-data completion (framing break, error).
func (p *SimPort) Break() {
	p.mu.Lock()
	p.brk = true
	p.mu.Unlock()
}

func (p *SimPort) SubmitTransmit(descs []TxDescriptor) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.busyLeft > 0 || len(p.txPending) > 0 {
		p.stats.Rejected++
		return false
	}
	if len(descs) == 0 || len(descs) > MaxTxDescriptors {
		p.stats.Rejected++
		return false
	}
	// The whole set is captured here; the submitter may reuse its
	// descriptor array after the port goes not-busy.
	for _, d := range descs {
		p.txPending = append(p.txPending, append([]byte(nil), d.Buf...))
	}
	p.busyLeft = p.txDelay + 1
	p.stats.Accepted++
	return true
}

func (p *SimPort) TransmitBusy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busyLeft > 0
}

func (p *SimPort) SubmitReceive(d *RxDescriptor) error {
	if d == nil || len(d.Buf) == 0 {
		return errcode.InvalidParams
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rx != nil && p.rx != d {
		return errcode.RxArmed
	}
	p.rx = d
	return nil
}

func (p *SimPort) Service() {
	p.mu.Lock()
	defer p.mu.Unlock()

	// TX progress.
	if p.busyLeft > 0 {
		p.busyLeft--
		if p.busyLeft == 0 {
			for _, part := range p.txPending {
				if p.out != nil {
					p.out.Write(part)
				}
			}
			p.txPending = nil
		}
	}

	// RX completion.
	if p.rx != nil && p.rx.Kind == CompletionNone {
		switch {
		case p.brk:
			p.brk = false
			p.rx.Kind = CompletionOther
			p.rx.Len = 0
			p.rx = nil
			p.stats.RxServed++
		case len(p.feed) > 0:
			n := copy(p.rx.Buf, p.feed)
			p.feed = p.feed[n:]
			p.rx.Kind = CompletionData
			p.rx.Len = n
			p.rx = nil
			p.stats.RxServed++
		}
	}
}
