package board

import "github.com/Lolfaceftw/USART/serial"

// RequestKind names a transmit request the core can be asked to produce.
// Banner outranks Update: a redraw of the whole screen must land before any
// incremental field update that follows it.
type RequestKind int

const (
	ReqBanner RequestKind = iota
	ReqUpdate
	numRequests
)

type reqState uint8

const (
	// No work outstanding for this kind.
	stateIdle reqState = iota
	// Requested, content not yet generated.
	statePending
	// Content generated, waiting for the transport to accept it.
	stateGenerating
)

// updateSource records what an Update episode is about. Only the most recent
// trigger wins; generation reads it exactly once.
type updateSource uint8

const (
	updNone updateSource = iota
	updButton
	updSetting
	updEcho
)

type request struct {
	state reqState
	descs [serial.MaxTxDescriptors]serial.TxDescriptor
	n     int
}

// pend marks a request kind as wanted. Re-pending a kind that is already
// pending or mid-flight is a no-op: content is generated from current state
// at transmit time, so the later trigger is folded into the open episode.
func (c *Core) pend(k RequestKind) {
	if c.reqs[k].state == stateIdle {
		c.reqs[k].state = statePending
	}
}

// service advances one request kind by at most one step. Generation happens
// once per episode and only when the transport can take the result; an
// accepted submission completes the episode in the same call.
func (c *Core) service(k RequestKind) {
	r := &c.reqs[k]
	switch r.state {
	case stateIdle:
		return
	case statePending:
		if c.tr.TransmitBusy() {
			return
		}
		c.generate(k)
		if r.n == 0 {
			r.state = stateIdle
			return
		}
		r.state = stateGenerating
		fallthrough
	case stateGenerating:
		if c.tr.SubmitTransmit(r.descs[:r.n]) {
			r.state = stateIdle
		}
	}
}

// generate fills the request's descriptor set from current core state.
func (c *Core) generate(k RequestKind) {
	r := &c.reqs[k]
	switch k {
	case ReqBanner:
		r.n = c.generateBanner(r.descs[:])
	case ReqUpdate:
		r.n = c.generateUpdate(r.descs[:], c.updSrc)
		c.updSrc = updNone
	}
}
