package board

import "sync/atomic"

// handleButtonEdge runs in interrupt context. It samples the debounced pin,
// latches the edge into the single-slot mailbox and acknowledges the line.
// A second edge before the loop drains the slot overwrites the first: the
// loop only ever reacts to the most recent state of the button.
func (c *Core) handleButtonEdge() {
	var m uint32
	if !c.ch.EIC.PinState(c.cfg.ButtonLine) {
		m = uint32(ButtonPress)
	} else {
		m = uint32(ButtonRelease)
	}
	atomic.StoreUint32(&c.latchMask, m)
	c.ch.EIC.AckLine(c.cfg.ButtonLine)
}

// TakeButtonEvent drains the edge mailbox. Returns 0 when no edge arrived
// since the previous take.
func (c *Core) TakeButtonEvent() ButtonMask {
	return ButtonMask(atomic.SwapUint32(&c.latchMask, 0))
}

func (c *Core) handleTick() {
	atomic.AddUint32(&c.ticks, 1)
}
