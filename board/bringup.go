package board

import (
	"github.com/Lolfaceftw/USART/chip"
	"github.com/Lolfaceftw/USART/serial"
	"github.com/Lolfaceftw/USART/x/timex"
)

const (
	// EVSYS asserts no reset-complete status quickly enough to poll; a fixed
	// settle is the one deliberate exception to the poll-don't-guess rule.
	evsysSettleCycles = 3

	// Debounce prescaler: low-frequency sampling is fine for mechanical
	// inputs, which are the only users of debouncing here.
	debouncePrescaler = 0xF

	irqPriority = 3
)

// Bringup runs the one-shot cold-boot sequence. Sub-steps are ordered and not
// safely re-enterable mid-sequence; global interrupt delivery is enabled as
// the final act, so no interrupt can observe half-initialised state.
func (c *Core) Bringup() {
	c.raisePerfLevel()

	// Early initialization.
	c.evsysInit()
	c.eicInitEarly()

	// Regular initialization.
	c.buttonInit()
	c.indicatorInit()
	c.timerInit()
	c.receiverInit()

	// Late initialization.
	c.eicInitLate()
	c.irqInit()

	// First thing on the wire once the loop starts running.
	c.pend(ReqBanner)
}

// evsysInit resets the event-routing peripheral. It is always enabled but may
// be in an inconsistent state after reset.
func (c *Core) evsysInit() {
	c.ch.EVSYS.Reset()
	c.ch.EVSYS.Settle(evsysSettleCycles)
}

// eicInitEarly does all structural EIC configuration while the controller is
// held disabled; most of its registers are write-protected once enabled.
func (c *Core) eicInitEarly() {
	// Debouncing needs GCLK_EIC running; pluck it off the slow generator.
	g := c.ch.GCLK
	g.EnableChannel(chip.ChanEIC, chip.GenSlow)
	c.wait("gclk.chan-eic", func() bool { return g.ChannelEnabled(chip.ChanEIC) })

	e := c.ch.EIC
	e.Reset()
	c.wait("eic.reset", func() bool { return !e.SyncBusy() })

	e.SetDebouncePrescaler(debouncePrescaler)
}

// eicInitLate enables the controller once all structural and per-line
// configuration is committed.
func (c *Core) eicInitLate() {
	e := c.ch.EIC
	e.Enable()
	c.wait("eic.enable", func() bool { return !e.SyncBusy() })
}

// buttonInit configures the push-button pin and its EIC line: input with
// internal pull-up, mux function A into the controller, debounced both-edge
// sense, line interrupt unmasked. The controller itself stays disabled here.
func (c *Core) buttonInit() {
	p, e := c.ch.Port, c.ch.EIC
	pin, line := c.cfg.ButtonPin, c.cfg.ButtonLine

	p.DirClr(pin)
	p.EnableInput(pin)
	p.EnablePull(pin, true)
	p.ConnectMux(pin, chip.MuxFuncA)

	e.EnableDebounce(line)
	e.SetSense(line, chip.SenseBoth)
	if err := e.SetHandler(line, c.handleButtonEdge); err != nil {
		println("[board] button handler:", err.Error())
	}
	e.EnableLineInterrupt(line)
}

// indicatorInit configures the indicator LED pin as output with the input
// buffer enabled for readback.
func (c *Core) indicatorInit() {
	c.ch.Port.DirSet(c.cfg.LEDPin)
	c.ch.Port.EnableInput(c.cfg.LEDPin)
}

// timerInit arms the free-running 16-bit counter used for blink timing:
// reset, 16-bit mode with the configured prescale, auto-reload on match, and
// a top value for the blink period at the resulting tick rate. Enable last.
func (c *Core) timerInit() {
	g, t := c.ch.GCLK, c.ch.TC
	g.EnableChannel(chip.ChanTC0, chip.GenSlow)
	c.wait("gclk.chan-tc", func() bool { return g.ChannelEnabled(chip.ChanTC0) })

	t.Reset()
	c.wait("tc.reset", func() bool { return !t.ResetBusy() })

	t.Configure16Bit(c.cfg.TimerPrescale)
	t.SetMatchFrequency()
	tickHz := c.cfg.SlowGenHz / uint32(c.cfg.TimerPrescale)
	t.SetTop(uint16(timex.TicksForPeriod(c.cfg.BlinkPeriodMs, tickHz)))
	t.Enable()
}

// receiverInit arms the first receive before interrupts go live, so the
// transport never completes into an unconfigured descriptor.
func (c *Core) receiverInit() {
	c.rxDesc.Buf = c.rxBuf[:]
	c.rxDesc.Kind = serial.CompletionNone
	c.rxDesc.Len = 0
	if err := c.tr.SubmitReceive(&c.rxDesc); err != nil {
		println("[board] receive arm:", err.Error())
	}
}

// irqInit configures priorities, unmasks the two interrupt sources in use,
// and enables global delivery. Global enable must stay last: every piece of
// interrupt-consumed state is initialised by now.
func (c *Core) irqInit() {
	q := c.ch.IRQ
	if err := q.SetHandler(c.cfg.TickIRQ, c.handleTick); err != nil {
		println("[board] tick handler:", err.Error())
	}
	q.SetPriority(c.cfg.ButtonIRQ, irqPriority)
	q.SetPriority(c.cfg.TickIRQ, irqPriority)
	q.Enable(c.cfg.ButtonIRQ)
	q.Enable(c.cfg.TickIRQ)
	q.EnableGlobal()
}
