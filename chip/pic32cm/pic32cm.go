//go:build pic32cm

// Package pic32cm is the memory-mapped register port of the chip contract
// for the PIC32CM LS00 family (Curiosity Nano + Touch evaluation board).
// Only the peripherals the control core touches are brought out.
package pic32cm

import (
	"device/arm"
	"runtime/volatile"
	"unsafe"

	"github.com/Lolfaceftw/USART/chip"
	"github.com/Lolfaceftw/USART/errcode"
)

// New returns the hardware-backed peripheral set.
func New() chip.Chip {
	return chip.Chip{
		PM:    pmHW{},
		SUPC:  supcHW{},
		NVM:   nvmHW{},
		OSC:   oscHW{},
		GCLK:  gclkHW{},
		EVSYS: evsysHW{},
		EIC:   &eicPort,
		Port:  portHW{},
		TC:    tcHW{},
		IRQ:   &irqPort,
	}
}

// ---- PM ----

type pmHW struct{}

func (pmHW) SetLevel(l chip.PerfLevel) { pmRegs.PLCFG.Set(uint8(l)) }
func (pmHW) LevelReady() bool          { return pmRegs.INTFLAG.Get()&0x01 != 0 }
func (pmHW) AckLevelFlag()             { pmRegs.INTFLAG.Set(0x01) }

// ---- SUPC ----

type supcHW struct{}

// VREGPLL: ENABLE plus a STARTUP value sized for the board's 1.1 uF VDDPLL
// capacitance.
func (supcHW) EnablePLLRegulator()     { supcRegs.VREGPLL.Set(0x00000302) }
func (supcHW) PLLRegulatorReady() bool { return supcRegs.STATUS.Get()&(1<<18) != 0 }

// ---- NVMCTRL ----

type nvmHW struct{}

func (nvmHW) SetFlashWaitStates(ws uint8) { nvmRegs.CTRLB.Set(uint32(ws) << 1) }

// DFLLCalibration assembles the DFLLVAL write from the factory fuse word.
// The register wants FINE in [9:0]; COARSE comes from the fuse.
func (nvmHW) DFLLCalibration() uint32 {
	fuse := (*volatile.Register32)(unsafe.Pointer(dfllCalibAddr)).Get()
	v := fuse & (0x3F << 25)
	v >>= 15
	v |= 512 & 0x3FF
	return v
}

// ---- OSCCTRL ----

type oscHW struct{}

func (oscHW) DisableDFLLOnDemand()         { oscRegs.DFLLCTRL.Set(0x0000) }
func (oscHW) LoadDFLLCalibration(v uint32) { oscRegs.DFLLVAL.Set(v) }
func (oscHW) EnableDFLL()                  { oscRegs.DFLLCTRL.SetBits(0x0002) }
func (oscHW) DFLLReady() bool              { return oscRegs.STATUS.Get()&(1<<24) != 0 }

// ---- GCLK ----

type gclkHW struct{}

func srcBits(src chip.ClockSource) uint32 {
	if src == chip.SourceDFLL48M {
		return 7
	}
	return 5
}

func (gclkHW) ConfigureGenerator(gen int, src chip.ClockSource, div uint16) {
	gclkRegs.GENCTRL[gen].Set(uint32(div)<<16 | 1<<8 | srcBits(src))
}

// SYNCBUSY flags GENCTRLn at bit 2+n.
func (gclkHW) GeneratorSyncing(gen int) bool {
	return gclkRegs.SYNCBUSY.Get()&(1<<(2+gen)) != 0
}

func (gclkHW) EnableChannel(ch, gen int) {
	gclkRegs.PCHCTRL[ch].Set(1<<6 | uint32(gen))
}
func (gclkHW) ChannelEnabled(ch int) bool {
	return gclkRegs.PCHCTRL[ch].Get()&(1<<6) != 0
}

// ---- EVSYS ----

type evsysHW struct{}

func (evsysHW) Reset() { evsysRegs.CTRLA.Set(0x01) }
func (evsysHW) Settle(cycles int) {
	for i := 0; i < cycles; i++ {
		arm.Asm("nop")
	}
}

// ---- EIC ----

type eicHW struct {
	handlers [16]func()
}

var eicPort eicHW

func (e *eicHW) Reset() { eicRegs.CTRLA.Set(0x01) }
func (e *eicHW) SyncBusy() bool {
	return eicRegs.SYNCBUSY.Get()&0x03 != 0
}
func (e *eicHW) SetDebouncePrescaler(v uint32) { eicRegs.DPRESCALER.Set(v) }
func (e *eicHW) EnableDebounce(line int)       { eicRegs.DEBOUNCEN.SetBits(1 << line) }

// SetSense writes the 4-bit SENSE field for the line in CONFIG0; debounced
// both-edge detection is FILTEN|SENSE_BOTH (0xB). Lines 8..15 live in CONFIG1,
// which this board does not use.
func (e *eicHW) SetSense(line int, sn chip.Sense) {
	if line > 7 {
		return
	}
	shift := uint(line) * 4
	var bits uint32
	switch sn {
	case chip.SenseRise:
		bits = 0x9
	case chip.SenseFall:
		bits = 0xA
	case chip.SenseBoth:
		bits = 0xB
	}
	eicRegs.CONFIG0.ClearBits(0xF << shift)
	eicRegs.CONFIG0.SetBits(bits << shift)
}

func (e *eicHW) EnableLineInterrupt(line int) { eicRegs.INTENSET.Set(1 << line) }
func (e *eicHW) Enable()                      { eicRegs.CTRLA.SetBits(0x02) }
func (e *eicHW) PinState(line int) bool       { return eicRegs.PINSTATE.Get()&(1<<line) != 0 }
func (e *eicHW) AckLine(line int)             { eicRegs.INTFLAG.Set(1 << line) }

func (e *eicHW) SetHandler(line int, fn func()) error {
	if line < 0 || line > 15 {
		return errcode.UnknownLine
	}
	e.handlers[line] = fn
	return nil
}

// DispatchLine runs the registered handler for an EIC line. The per-line
// interrupt vectors call this.
func DispatchLine(line int) {
	if fn := eicPort.handlers[line]; fn != nil {
		fn()
	}
}

// ---- PORT ----

type portHW struct{}

func (portHW) DirSet(pin int)      { portRegs.DIRSET.Set(1 << pin) }
func (portHW) DirClr(pin int)      { portRegs.DIRCLR.Set(1 << pin) }
func (portHW) EnableInput(pin int) { portRegs.PINCFG[pin].SetBits(1 << 1) }

// EnablePull turns on PULLEN; the pull direction follows the OUT bit.
func (portHW) EnablePull(pin int, up bool) {
	portRegs.PINCFG[pin].SetBits(1 << 2)
	if up {
		portRegs.OUTSET.Set(1 << pin)
	} else {
		portRegs.OUTCLR.Set(1 << pin)
	}
}

// ConnectMux enables PMUXEN and selects the peripheral function. Odd pins use
// the high nibble of the shared PMUX byte.
func (portHW) ConnectMux(pin int, fn uint8) {
	portRegs.PINCFG[pin].SetBits(1 << 0)
	r := &portRegs.PMUX[pin>>1]
	if pin&1 != 0 {
		r.ReplaceBits(fn, 0xF, 4)
	} else {
		r.ReplaceBits(fn, 0xF, 0)
	}
}

func (portHW) Out(pin int, high bool) {
	if high {
		portRegs.OUTSET.Set(1 << pin)
	} else {
		portRegs.OUTCLR.Set(1 << pin)
	}
}
func (portHW) In(pin int) bool { return portRegs.IN.Get()&(1<<pin) != 0 }
func (portHW) Toggle(pin int)  { portRegs.OUTTGL.Set(1 << pin) }

// ---- TC0 ----

type tcHW struct{}

func (tcHW) Reset()          { tc0Regs.CTRLA.Set(0x01) }
func (tcHW) ResetBusy() bool { return tc0Regs.SYNCBUSY.Get()&0x01 != 0 }

func prescaleBits(p chip.Prescale) uint32 {
	switch p {
	case chip.Prescale64:
		return 0x5
	case chip.Prescale256:
		return 0x6
	case chip.Prescale1024:
		return 0x7
	default:
		return 0x0
	}
}

// Configure16Bit sets 16-bit mode, PRESCSYNC=PRESC and the prescaler as one
// CTRLA write; the register is not enable-protected piecemeal-writable.
func (tcHW) Configure16Bit(p chip.Prescale) {
	tc0Regs.CTRLA.Set(0x1<<4 | prescaleBits(p)<<8)
}
func (tcHW) SetMatchFrequency() { tc0Regs.WAVE.Set(0x1) }
func (tcHW) SetTop(top uint16)  { tc0Regs.CC[0].Set(top) }
func (tcHW) Enable()            { tc0Regs.CTRLA.SetBits(1 << 1) }

// Count issues a READSYNC command so COUNT reads back the live value.
func (tcHW) Count() uint16 {
	tc0Regs.CTRLBSET.Set(0x4 << 5)
	return tc0Regs.COUNT.Get()
}

// ---- NVIC ----

type irqHW struct {
	handlers map[chip.IRQ]func()
}

var irqPort = irqHW{handlers: map[chip.IRQ]func(){}}

// SetPriority covers both spaces: external interrupts through IPR, SysTick
// (the only negative number in use) through SHPR3.
func (n *irqHW) SetPriority(irq chip.IRQ, prio uint8) {
	if irq < 0 {
		scbSHPR3.ReplaceBits(uint32(prio)<<6, 0xFF, 24)
		return
	}
	shift := uint8(irq&3)*8 + 6
	nvicIPR[irq>>2].ReplaceBits(uint32(prio), 0x3, shift)
}

// SysTick counts the 24 MHz core clock down at the conventional 1 kHz.
const (
	sysTickCoreHz = 24_000_000
	sysTickRateHz = 1000
)

// Enable unmasks an external interrupt. SysTick has no NVIC enable bit;
// arming it means programming the reload and starting the counter with
// TICKINT set.
func (n *irqHW) Enable(irq chip.IRQ) {
	if irq < 0 {
		sysTickRVR.Set(sysTickCoreHz/sysTickRateHz - 1)
		sysTickCVR.Set(0)
		sysTickCSR.Set(0x7) // CLKSOURCE | TICKINT | ENABLE
		return
	}
	nvicISER.Set(1 << uint(irq))
}

func (n *irqHW) EnableGlobal() {
	arm.Asm("dmb")
	arm.EnableInterrupts(0)
}

func (n *irqHW) SetHandler(irq chip.IRQ, fn func()) error {
	if fn == nil {
		return errcode.InvalidParams
	}
	n.handlers[irq] = fn
	return nil
}

// DispatchIRQ runs the registered handler for an interrupt number; the vector
// table stubs call this.
func DispatchIRQ(irq chip.IRQ) {
	if fn := irqPort.handlers[irq]; fn != nil {
		fn()
	}
}

// ---- vector table stubs ----

// The startup code's vector table resolves these symbols at link time; each
// forwards into the registered handler tables. EIC line 2 is the only
// external line this board routes an interrupt for.

//export EIC_EXTINT_2_Handler
func eicExtint2Handler() { DispatchLine(2) }

//export SysTick_Handler
func sysTickHandler() { DispatchIRQ(chip.IRQSysTick) }
