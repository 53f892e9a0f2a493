package board

import (
	"github.com/Lolfaceftw/USART/serial"
	"github.com/Lolfaceftw/USART/types"
	"github.com/Lolfaceftw/USART/x/mathx"
)

// Tick runs one pass of the cooperative event loop: service the transport,
// drain the button mailbox, classify any completed receive, then advance the
// outstanding transmit requests. Calling Tick with nothing to do is a no-op.
func (c *Core) Tick() {
	c.tr.Service()
	c.renderBlink()

	if m := c.TakeButtonEvent(); m != 0 {
		// Press and release in the same slot means the button is back where
		// it started; only the final state is reported.
		pressed := m&ButtonRelease == 0
		c.updSrc = updButton
		c.pend(ReqUpdate)
		c.publishButton(pressed)
	}

	switch c.rxDesc.Kind {
	case serial.CompletionData:
		n := copy(c.echoBuf[:], c.rxDesc.Buf[:c.rxDesc.Len])
		c.rearmReceive()
		c.classifyInput(c.echoBuf[:n])
	case serial.CompletionOther:
		c.rearmReceive()
	}

	// A trigger that landed after the open episode already generated starts
	// a fresh one.
	if c.updSrc != updNone {
		c.pend(ReqUpdate)
	}
	c.service(ReqBanner)
	c.service(ReqUpdate)
}

// rearmReceive hands the descriptor back to the transport immediately so no
// completion window is ever left uncovered.
func (c *Core) rearmReceive() {
	c.rxDesc.Kind = serial.CompletionNone
	c.rxDesc.Len = 0
	if err := c.tr.SubmitReceive(&c.rxDesc); err != nil {
		println("[board] receive rearm:", err.Error())
	}
}

// classifyInput interprets one completed receive. Control inputs act on the
// board; anything else is echoed back as hex.
func (c *Core) classifyInput(data []byte) {
	if len(data) == 0 {
		return
	}
	switch {
	case data[0] == 0x05: // Ctrl+E
		c.pend(ReqBanner)
		return
	case data[0] == '<', data[0] == 'A', data[0] == 'a', isArrow(data, 'D'):
		c.adjustSetting(false)
		return
	case data[0] == '>', data[0] == 'D', data[0] == 'd', isArrow(data, 'C'):
		c.adjustSetting(true)
		return
	}
	c.echoLen = len(data)
	c.updSrc = updEcho
	c.publishRX(data)
}

// isArrow reports whether data is the three-byte CSI sequence for the arrow
// key with final byte fin ('C' right, 'D' left).
func isArrow(data []byte, fin byte) bool {
	return len(data) == 3 && data[0] == 0x1b && data[1] == '[' && data[2] == fin
}

// adjustSetting steps the blink setting one notch, clamped at both ends. A
// step that lands where it started still repaints the field.
func (c *Core) adjustSetting(up bool) {
	d := -1
	if up {
		d = 1
	}
	next := mathx.Clamp(int(c.setting)+d, 0, int(types.NumBlinkSettings)-1)
	c.setting = types.BlinkSetting(next)
	c.updSrc = updSetting
	c.publishSetting(c.setting)
}
