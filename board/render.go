package board

import (
	"github.com/Lolfaceftw/USART/serial"
	"github.com/Lolfaceftw/USART/types"
	"github.com/Lolfaceftw/USART/x/conv"
	"github.com/Lolfaceftw/USART/x/mathx"
	"github.com/Lolfaceftw/USART/x/timex"
)

// The terminal is treated as a fixed form: the banner paints the frame once,
// updates reposition the cursor into a field, clear to end of line and
// rewrite just that field. The cursor is parked below the form after every
// write so a disconnected-then-reattached terminal still looks sane.
const banner = "\x1b[2J\x1b[H" +
	"+------------------------------------------+\r\n" +
	"|            Board Control Demo            |\r\n" +
	"+------------------------------------------+\r\n" +
	"|                                          |\r\n" +
	"|  SW0 toggles the button state below.     |\r\n" +
	"|  < / > (or arrow keys) step the blink    |\r\n" +
	"|  setting. Ctrl+E repaints this screen.   |\r\n" +
	"|                                          |\r\n" +
	"|  Button:                                 |\r\n" +
	"|  Blink:                                  |\r\n" +
	"|  Input:                                  |\r\n" +
	"+------------------------------------------+\r\n"

const (
	escButtonPos  = "\x1b[9;12H\x1b[0K"
	escSettingPos = "\x1b[10;11H\x1b[0K"
	escKeyPos     = "\x1b[11;11H\x1b[0K"
	escPark       = "\x1b[13;1H"

	textPressed  = "[ Pressed  ]"
	textReleased = "[ Released ]"
)

var bannerBytes = []byte(banner)

var settingText = [types.NumBlinkSettings]string{
	types.BlinkOff:    "[   Off    ]",
	types.BlinkOn:     "[   On     ]",
	types.BlinkSlow:   "[   Slow   ]",
	types.BlinkMedium: "[  Medium  ]",
	types.BlinkFast:   "[   Fast   ]",
}

// generateBanner emits the full frame plus the current value of every field.
func (c *Core) generateBanner(descs []serial.TxDescriptor) int {
	buf := c.txBuf[:0]
	buf = append(buf, escButtonPos...)
	buf = c.appendButtonText(buf)
	buf = append(buf, escSettingPos...)
	buf = append(buf, settingText[c.setting]...)
	buf = append(buf, escKeyPos...)
	buf = c.appendEchoText(buf)
	buf = append(buf, escPark...)

	descs[0].Buf = bannerBytes
	descs[1].Buf = buf
	return 2
}

// generateUpdate emits a single-field rewrite for the episode's trigger.
func (c *Core) generateUpdate(descs []serial.TxDescriptor, src updateSource) int {
	buf := c.txBuf[:0]
	switch src {
	case updButton:
		buf = append(buf, escButtonPos...)
		buf = c.appendButtonText(buf)
	case updSetting:
		buf = append(buf, escSettingPos...)
		buf = append(buf, settingText[c.setting]...)
	case updEcho:
		buf = append(buf, escKeyPos...)
		buf = c.appendEchoText(buf)
	default:
		return 0
	}
	buf = append(buf, escPark...)
	descs[0].Buf = buf
	return 1
}

func (c *Core) appendButtonText(buf []byte) []byte {
	if !c.ch.EIC.PinState(c.cfg.ButtonLine) {
		return append(buf, textPressed...)
	}
	return append(buf, textReleased...)
}

func (c *Core) appendEchoText(buf []byte) []byte {
	if c.echoLen == 0 {
		return append(buf, "<none>"...)
	}
	return conv.AppendHexDump(buf, c.echoBuf[:c.echoLen], 0)
}

// renderBlink drives the indicator from the free-running blink counter. Off
// and On are static levels; the blinking settings divide one counter period
// into 2, 4 or 8 phases.
func (c *Core) renderBlink() {
	switch c.setting {
	case types.BlinkOff:
		c.ch.Port.Out(c.cfg.LEDPin, false)
		return
	case types.BlinkOn:
		c.ch.Port.Out(c.cfg.LEDPin, true)
		return
	}

	top := timex.TicksForPeriod(c.cfg.BlinkPeriodMs, c.cfg.SlowGenHz/uint32(c.cfg.TimerPrescale))
	if top == 0 {
		return
	}
	var phases uint32
	switch c.setting {
	case types.BlinkSlow:
		phases = 2
	case types.BlinkMedium:
		phases = 4
	default:
		phases = 8
	}
	// A period shorter than the phase count collapses the divisor to zero;
	// clamp so every slot is at least one counter tick wide.
	div := mathx.Max(top/phases, 1)
	slot := uint32(c.ch.TC.Count()) / div
	c.ch.Port.Out(c.cfg.LEDPin, slot%2 == 0)
}
