// Package chip defines the typed peripheral driver contracts for the
// PIC32CM-class SoC this module brings up. Each peripheral is a small named
// interface; implementations are the memory-mapped register port (MCU builds)
// and the simulated chip in chip/sim (hosted builds and tests).
package chip

// ---- Clock & power ----

// PerfLevel is the CPU performance level. The chip resets in PL0; PL2 is
// required for 24 MHz operation.
type PerfLevel uint8

const (
	PL0 PerfLevel = iota
	PL1
	PL2
)

// PM is the power manager.
type PM interface {
	SetLevel(l PerfLevel)
	// LevelReady reports the PLRDY flag; reread live, never cached.
	LevelReady() bool
	AckLevelFlag()
}

// SUPC is the supply controller; it powers the PLL voltage regulator.
type SUPC interface {
	EnablePLLRegulator()
	PLLRegulatorReady() bool
}

// NVMCTRL covers the flash controller concerns the bring-up touches.
type NVMCTRL interface {
	SetFlashWaitStates(n uint8)
	// DFLLCalibration returns the factory calibration word in the layout the
	// DFLL value register expects (coarse from the OTP row, fine mid-scale).
	DFLLCalibration() uint32
}

// OSCCTRL drives the 48 MHz DFLL.
type OSCCTRL interface {
	// DisableDFLLOnDemand clears ONDEMAND so the oscillator runs
	// unconditionally while it is being configured.
	DisableDFLLOnDemand()
	// LoadDFLLCalibration must be a single register write.
	LoadDFLLCalibration(val uint32)
	EnableDFLL()
	DFLLReady() bool
}

// ClockSource identifies a generator input.
type ClockSource uint8

const (
	SourceOSC16M ClockSource = iota
	SourceDFLL48M
)

// Generator and peripheral-channel assignments for the reference board.
const (
	GenFast = 0 // main clock, 24 MHz after bring-up
	GenSlow = 2 // 4 MHz, debounce and timer clocking

	ChanEIC = 4  // GCLK_EIC peripheral channel
	ChanTC0 = 23 // GCLK_TC0 peripheral channel
)

// GCLK is the generic clock controller.
type GCLK interface {
	ConfigureGenerator(gen int, src ClockSource, div uint16)
	// GeneratorSyncing reports the per-generator SYNCBUSY bit.
	GeneratorSyncing(gen int) bool
	EnableChannel(ch, gen int)
	ChannelEnabled(ch int) bool
}

// ---- Event system ----

// EVSYS is the event-routing peripheral. It asserts no reset-complete status
// quickly enough to poll, so Settle is a fixed delay rather than a gate.
type EVSYS interface {
	Reset()
	Settle(cycles int)
}

// ---- External interrupt controller ----

// Sense selects the edge/level detection for one EIC line.
type Sense uint8

const (
	SenseNone Sense = iota
	SenseRise
	SenseFall
	SenseBoth
)

// EIC is the external-interrupt controller. Structural configuration is
// write-protected while the controller is enabled, hence the split bring-up.
type EIC interface {
	Reset()
	// SyncBusy covers reset and enable synchronisation.
	SyncBusy() bool
	SetDebouncePrescaler(v uint32)
	EnableDebounce(line int)
	SetSense(line int, s Sense)
	EnableLineInterrupt(line int)
	Enable()
	// PinState is the controller's latched pin sample for the line.
	PinState(line int) bool
	AckLine(line int)
	// SetHandler binds the interrupt-context handler for one line.
	SetHandler(line int, fn func()) error
}

// ---- GPIO ----

// Mux functions; function A routes a pin to the EIC.
const MuxFuncA uint8 = 0

// Port is the pin controller for the one I/O group in use.
type Port interface {
	DirSet(pin int) // output
	DirClr(pin int) // input
	EnableInput(pin int)
	EnablePull(pin int, up bool)
	ConnectMux(pin int, fn uint8)
	Out(pin int, high bool)
	In(pin int) bool
	Toggle(pin int)
}

// ---- Timer/counter ----

// Prescale divides the generic clock feeding the counter.
type Prescale uint16

const (
	Prescale1    Prescale = 1
	Prescale64   Prescale = 64
	Prescale256  Prescale = 256
	Prescale1024 Prescale = 1024
)

// TC is the 16-bit counter used for blink timing.
type TC interface {
	Reset()
	ResetBusy() bool
	Configure16Bit(p Prescale)
	// SetMatchFrequency selects the auto-reload-on-CC0-match waveform.
	SetMatchFrequency()
	SetTop(top uint16)
	Enable()
	// Count issues the read-sync command and returns the live counter.
	Count() uint16
}

// ---- Core interrupt controller ----

// IRQ is a core interrupt number. Negative values name Cortex-M core
// exceptions in CMSIS style.
type IRQ int

// IRQSysTick is the SysTick exception, the only core exception in use.
const IRQSysTick IRQ = -1

// IRQCtrl is the NVIC-level view: priorities, per-source unmask, and the
// global enable that must come last in bring-up.
type IRQCtrl interface {
	SetPriority(irq IRQ, prio uint8)
	Enable(irq IRQ)
	EnableGlobal()
	SetHandler(irq IRQ, fn func()) error
}

// ---- Bundle ----

// Chip bundles the peripheral drivers handed to the control core.
type Chip struct {
	PM    PM
	SUPC  SUPC
	NVM   NVMCTRL
	OSC   OSCCTRL
	GCLK  GCLK
	EVSYS EVSYS
	EIC   EIC
	Port  Port
	TC    TC
	IRQ   IRQCtrl
}
