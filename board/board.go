// Package board implements the hardware-facing control core: the ordered,
// wait-gated peripheral bring-up sequence and the cooperative event loop that
// turns a raw edge interrupt and raw byte-stream completions into a coherent
// application-visible event stream.
package board

import (
	"sync/atomic"

	"github.com/Lolfaceftw/USART/bus"
	"github.com/Lolfaceftw/USART/chip"
	"github.com/Lolfaceftw/USART/serial"
	"github.com/Lolfaceftw/USART/types"
	"github.com/Lolfaceftw/USART/x/timex"
)

// ButtonMask is the press/release bit pair returned by TakeButtonEvent.
type ButtonMask uint32

const (
	ButtonPress ButtonMask = 1 << iota
	ButtonRelease
)

// Config wires the core to its collaborators. Pin, line and interrupt numbers
// default to the reference board (active-low button on PA23 via EIC line 2,
// active-high indicator on PA15).
type Config struct {
	Chip      chip.Chip
	Transport serial.Transport
	Conn      *bus.Connection // optional application event stream
	Wait      chip.WaitFunc   // default chip.Spin
	Now       func() int64    // ms timestamps, default timex.NowMs

	ButtonPin  int
	ButtonLine int
	LEDPin     int
	ButtonIRQ  chip.IRQ
	TickIRQ    chip.IRQ

	SlowGenHz     uint32
	TimerPrescale chip.Prescale
	BlinkPeriodMs uint32
}

// DefaultConfig returns the reference-board wiring.
func DefaultConfig() Config {
	return Config{
		ButtonPin:  23,
		ButtonLine: 2,
		LEDPin:     15,
		ButtonIRQ:  10, // EIC_EXTINT_2
		TickIRQ:    chip.IRQSysTick,
		SlowGenHz:  4_000_000,

		TimerPrescale: chip.Prescale1024,
		BlinkPeriodMs: 2000,
	}
}

// Core is the control core. Bringup must complete before the first Tick; the
// host then calls Tick forever. Apart from the interrupt-context handlers,
// all methods belong to one cooperative main context.
type Core struct {
	cfg Config
	ch  chip.Chip
	tr  serial.Transport

	// Single-slot mailbox: written by the interrupt context, swapped to zero
	// by the consumer.
	latchMask uint32
	ticks     uint32

	reqs    [numRequests]request
	updSrc  updateSource
	setting types.BlinkSetting

	rxDesc  serial.RxDescriptor
	rxBuf   [16]byte
	echoBuf [16]byte
	echoLen int
	txBuf   [128]byte
}

func New(cfg Config) *Core {
	if cfg.Wait == nil {
		cfg.Wait = chip.Spin
	}
	if cfg.Now == nil {
		cfg.Now = func() int64 { return timex.NowMs() }
	}
	return &Core{cfg: cfg, ch: cfg.Chip, tr: cfg.Transport}
}

func (c *Core) wait(name string, gate chip.Gate) { c.cfg.Wait(name, gate) }
func (c *Core) now() int64                       { return c.cfg.Now() }

// Setting returns the current blink setting.
func (c *Core) Setting() types.BlinkSetting { return c.setting }

// TickCount returns the number of periodic tick interrupts observed.
func (c *Core) TickCount() uint32 { return atomic.LoadUint32(&c.ticks) }

// ---- bus publication ----

var (
	topicButton   = bus.T("board", "button")
	topicSetting  = bus.T("board", "setting")
	topicSerialRX = bus.T("board", "serial", "rx")
)

func (c *Core) publishButton(pressed bool) {
	if c.cfg.Conn == nil {
		return
	}
	ev := types.ButtonEvent{Pressed: pressed, TS: c.now()}
	c.cfg.Conn.Publish(c.cfg.Conn.NewMessage(topicButton, ev, true))
}

func (c *Core) publishSetting(s types.BlinkSetting) {
	if c.cfg.Conn == nil {
		return
	}
	ev := types.SettingEvent{Setting: s, TS: c.now()}
	c.cfg.Conn.Publish(c.cfg.Conn.NewMessage(topicSetting, ev, true))
}

func (c *Core) publishRX(data []byte) {
	if c.cfg.Conn == nil {
		return
	}
	ev := types.SerialRXEvent{Data: append([]byte(nil), data...), TS: c.now()}
	c.cfg.Conn.Publish(c.cfg.Conn.NewMessage(topicSerialRX, ev, false))
}
