//go:build pic32cm

package pic32cm

import (
	"runtime/volatile"
	"unsafe"
)

// Secure-alias peripheral instances for the PIC32CM LS00 (Cortex-M23).
var (
	pmRegs    = (*pmType)(unsafe.Pointer(pmBase))
	oscRegs   = (*oscctrlType)(unsafe.Pointer(oscctrlBase))
	supcRegs  = (*supcType)(unsafe.Pointer(supcBase))
	gclkRegs  = (*gclkType)(unsafe.Pointer(gclkBase))
	eicRegs   = (*eicType)(unsafe.Pointer(eicBase))
	portRegs  = (*portGroupType)(unsafe.Pointer(portBase))
	nvmRegs   = (*nvmctrlType)(unsafe.Pointer(nvmctrlBase))
	evsysRegs = (*evsysType)(unsafe.Pointer(evsysBase))
	tc0Regs   = (*tcCount16Type)(unsafe.Pointer(tc0Base))

	sysTickCSR = (*volatile.Register32)(unsafe.Pointer(uintptr(0xE000E010)))
	sysTickRVR = (*volatile.Register32)(unsafe.Pointer(uintptr(0xE000E014)))
	sysTickCVR = (*volatile.Register32)(unsafe.Pointer(uintptr(0xE000E018)))
	nvicISER   = (*volatile.Register32)(unsafe.Pointer(uintptr(0xE000E100)))
	nvicIPR    = (*[8]volatile.Register32)(unsafe.Pointer(uintptr(0xE000E400)))
	scbSHPR3   = (*volatile.Register32)(unsafe.Pointer(uintptr(0xE000ED20)))
)

const (
	pmBase      uintptr = 0x40000000
	oscctrlBase uintptr = 0x40001000
	supcBase    uintptr = 0x40001800
	gclkBase    uintptr = 0x40001C00
	eicBase     uintptr = 0x40002800
	portBase    uintptr = 0x40003000
	nvmctrlBase uintptr = 0x41004000
	evsysBase   uintptr = 0x42000000
	tc0Base     uintptr = 0x42001000

	// DFLL48M factory calibration word in the NVM software calibration area.
	dfllCalibAddr uintptr = 0x00806020
)

type pmType struct {
	CTRLA    volatile.Register8
	SLEEPCFG volatile.Register8
	PLCFG    volatile.Register8
	PWCFG    volatile.Register8
	INTENCLR volatile.Register8
	INTENSET volatile.Register8
	INTFLAG  volatile.Register8
	_        [1]byte
	STDBYCFG volatile.Register16
}

type oscctrlType struct {
	EVCTRL   volatile.Register8
	_        [3]byte
	INTENCLR volatile.Register32
	INTENSET volatile.Register32
	INTFLAG  volatile.Register32
	STATUS   volatile.Register32
	XOSCCTRL volatile.Register16
	_        [2]byte
	DFLLCTRL volatile.Register16
	_        [2]byte
	DFLLVAL  volatile.Register32
}

type supcType struct {
	INTENCLR volatile.Register32
	INTENSET volatile.Register32
	INTFLAG  volatile.Register32
	STATUS   volatile.Register32
	BOD33    volatile.Register32
	BOD12    volatile.Register32
	VREG     volatile.Register32
	VREF     volatile.Register32
	EVCTRL   volatile.Register32
	_        [4]byte
	VREGPLL  volatile.Register32
}

type gclkType struct {
	CTRLA    volatile.Register8
	_        [3]byte
	SYNCBUSY volatile.Register32
	_        [24]byte
	GENCTRL  [8]volatile.Register32
	_        [64]byte
	PCHCTRL  [42]volatile.Register32
}

type eicType struct {
	CTRLA      volatile.Register8
	NMICTRL    volatile.Register8
	NMIFLAG    volatile.Register16
	SYNCBUSY   volatile.Register32
	EVCTRL     volatile.Register32
	INTENCLR   volatile.Register32
	INTENSET   volatile.Register32
	INTFLAG    volatile.Register32
	ASYNCH     volatile.Register32
	CONFIG0    volatile.Register32
	_          [28]byte
	DEBOUNCEN  volatile.Register32
	DPRESCALER volatile.Register32
	PINSTATE   volatile.Register32
}

type portGroupType struct {
	DIR      volatile.Register32
	DIRCLR   volatile.Register32
	DIRSET   volatile.Register32
	DIRTGL   volatile.Register32
	OUT      volatile.Register32
	OUTCLR   volatile.Register32
	OUTSET   volatile.Register32
	OUTTGL   volatile.Register32
	IN       volatile.Register32
	CTRL     volatile.Register32
	WRCONFIG volatile.Register32
	EVCTRL   volatile.Register32
	PMUX     [16]volatile.Register8
	PINCFG   [32]volatile.Register8
}

type nvmctrlType struct {
	CTRLA volatile.Register16
	_     [2]byte
	CTRLB volatile.Register32
}

type evsysType struct {
	CTRLA volatile.Register8
}

type tcCount16Type struct {
	CTRLA    volatile.Register32
	CTRLBCLR volatile.Register8
	CTRLBSET volatile.Register8
	EVCTRL   volatile.Register16
	INTENCLR volatile.Register8
	INTENSET volatile.Register8
	INTFLAG  volatile.Register8
	STATUS   volatile.Register8
	WAVE     volatile.Register8
	DRVCTRL  volatile.Register8
	_        [1]byte
	DBGCTRL  volatile.Register8
	SYNCBUSY volatile.Register32
	COUNT    volatile.Register16
	_        [6]byte
	CC       [2]volatile.Register16
}
