// Package sim is a simulated chip for hosted builds and tests. Every register
// operation is recorded in an ordered trace, and every hardware ready
// condition is a programmable gate, so bring-up ordering invariants can be
// asserted and unbounded waits terminate deterministically.
package sim

import (
	"strconv"
	"sync"

	"github.com/Lolfaceftw/USART/chip"
	"github.com/Lolfaceftw/USART/errcode"
)

// State is the shared simulator state behind all peripheral views.
type State struct {
	mu    sync.Mutex
	trace []string
	gates map[string]int // remaining not-ready polls
	ready map[string]bool

	violations []string

	// EIC
	eicEnabled  bool
	debounceEn  map[int]bool
	sense       map[int]chip.Sense
	lineIntEn   map[int]bool
	pinState    map[int]bool
	eicHandlers map[int]func()

	// Core IRQ controller
	globalIRQ   bool
	irqEnabled  map[chip.IRQ]bool
	irqHandlers map[chip.IRQ]func()

	// Port
	dirOut   map[int]bool
	outLevel map[int]bool
	inLevel  map[int]bool

	// TC
	tcRunning bool
	tcTop     uint16
	tcCount   uint16
}

// New builds a simulator and the chip.Chip bundle over it.
func New() (*State, chip.Chip) {
	s := &State{
		gates:       map[string]int{},
		ready:       map[string]bool{},
		debounceEn:  map[int]bool{},
		sense:       map[int]chip.Sense{},
		lineIntEn:   map[int]bool{},
		pinState:    map[int]bool{},
		eicHandlers: map[int]func(){},
		irqEnabled:  map[chip.IRQ]bool{},
		irqHandlers: map[chip.IRQ]func(){},
		dirOut:      map[int]bool{},
		outLevel:    map[int]bool{},
		inLevel:     map[int]bool{},
	}
	c := chip.Chip{
		PM:    (*pm)(s),
		SUPC:  (*supc)(s),
		NVM:   (*nvm)(s),
		OSC:   (*osc)(s),
		GCLK:  (*gclk)(s),
		EVSYS: (*evsys)(s),
		EIC:   (*eic)(s),
		Port:  (*port)(s),
		TC:    (*tc)(s),
		IRQ:   (*irqctrl)(s),
	}
	return s, c
}

// ---- trace & gates ----

func (s *State) rec(op string) {
	s.mu.Lock()
	s.trace = append(s.trace, op)
	s.mu.Unlock()
}

// gate reports whether the named condition is ready, consuming one configured
// not-ready poll per call. The first ready observation lands in the trace.
func (s *State) gate(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.gates[name]; n > 0 {
		s.gates[name] = n - 1
		return false
	}
	if !s.ready[name] {
		s.ready[name] = true
		s.trace = append(s.trace, "ready:"+name)
	}
	return true
}

// SetGateDelay makes the named gate poll false n times before going ready.
func (s *State) SetGateDelay(name string, n int) {
	s.mu.Lock()
	s.gates[name] = n
	delete(s.ready, name)
	s.mu.Unlock()
}

// Trace returns a copy of the recorded operations, in order.
func (s *State) Trace() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.trace))
	copy(out, s.trace)
	return out
}

// IndexOf returns the first trace position of op, or -1.
func (s *State) IndexOf(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.trace {
		if t == op {
			return i
		}
	}
	return -1
}

// Violations lists configuration writes issued while they were locked out
// (EIC structural writes with the controller enabled).
func (s *State) Violations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.violations))
	copy(out, s.violations)
	return out
}

func (s *State) violate(op string) {
	s.mu.Lock()
	s.violations = append(s.violations, op)
	s.mu.Unlock()
}

// ---- stimulus ----

// FireEdge drives the latched pin state for an EIC line and delivers the line
// interrupt, but only along the path hardware would take: controller enabled,
// line unmasked, global delivery on, handler bound.
func (s *State) FireEdge(line int, level bool) {
	s.mu.Lock()
	s.pinState[line] = level
	deliver := s.eicEnabled && s.lineIntEn[line] && s.globalIRQ
	h := s.eicHandlers[line]
	s.mu.Unlock()
	if deliver && h != nil {
		s.rec("irq:eic." + strconv.Itoa(line))
		h()
	}
}

// FireIRQ delivers a core interrupt (e.g. the periodic tick source).
func (s *State) FireIRQ(irq chip.IRQ) {
	s.mu.Lock()
	deliver := s.globalIRQ && s.irqEnabled[irq]
	h := s.irqHandlers[irq]
	s.mu.Unlock()
	if deliver && h != nil {
		h()
	}
}

// SetCount sets the live timer counter value returned by TC.Count.
func (s *State) SetCount(v uint16) {
	s.mu.Lock()
	s.tcCount = v
	s.mu.Unlock()
}

// OutLevel reports the driven level of an output pin.
func (s *State) OutLevel(pin int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outLevel[pin]
}

// ---- PM ----

type pm State

func (p *pm) SetLevel(l chip.PerfLevel) {
	(*State)(p).rec("pm.plcfg=" + strconv.Itoa(int(l)))
}
func (p *pm) LevelReady() bool { return (*State)(p).gate("pm.levelready") }
func (p *pm) AckLevelFlag()    { (*State)(p).rec("pm.intflag.ack") }

// ---- SUPC ----

type supc State

func (u *supc) EnablePLLRegulator()     { (*State)(u).rec("supc.vregpll") }
func (u *supc) PLLRegulatorReady() bool { return (*State)(u).gate("supc.pllrdy") }

// ---- NVMCTRL ----

type nvm State

func (n *nvm) SetFlashWaitStates(ws uint8) {
	(*State)(n).rec("nvm.waitstates=" + strconv.Itoa(int(ws)))
}
func (n *nvm) DFLLCalibration() uint32 { return 0x200 } // fine mid-scale

// ---- OSCCTRL ----

type osc State

func (o *osc) DisableDFLLOnDemand()         { (*State)(o).rec("osc.dfllctrl.ondemand=0") }
func (o *osc) LoadDFLLCalibration(v uint32) { (*State)(o).rec("osc.dfllval") }
func (o *osc) EnableDFLL()                  { (*State)(o).rec("osc.dfllctrl.enable") }
func (o *osc) DFLLReady() bool              { return (*State)(o).gate("osc.dfllrdy") }

// ---- GCLK ----

type gclk State

func srcName(src chip.ClockSource) string {
	if src == chip.SourceDFLL48M {
		return "dfll48m"
	}
	return "osc16m"
}

func (g *gclk) ConfigureGenerator(gen int, src chip.ClockSource, div uint16) {
	(*State)(g).rec("gclk.gen" + strconv.Itoa(gen) + "=" + srcName(src) + "/" + strconv.Itoa(int(div)))
}
func (g *gclk) GeneratorSyncing(gen int) bool {
	return !(*State)(g).gate("gclk.sync" + strconv.Itoa(gen))
}
func (g *gclk) EnableChannel(ch, gen int) {
	(*State)(g).rec("gclk.chan" + strconv.Itoa(ch) + "=gen" + strconv.Itoa(gen))
}
func (g *gclk) ChannelEnabled(ch int) bool {
	return (*State)(g).gate("gclk.chan" + strconv.Itoa(ch))
}

// ---- EVSYS ----

type evsys State

func (e *evsys) Reset()            { (*State)(e).rec("evsys.swrst") }
func (e *evsys) Settle(cycles int) { (*State)(e).rec("evsys.settle=" + strconv.Itoa(cycles)) }

// ---- EIC ----

type eic State

// structural returns whether a structural write is currently legal, recording
// a violation when it is not.
func (e *eic) structural(op string) {
	s := (*State)(e)
	s.mu.Lock()
	locked := s.eicEnabled
	s.mu.Unlock()
	if locked {
		s.violate(op)
	}
	s.rec(op)
}

func (e *eic) Reset() {
	s := (*State)(e)
	s.mu.Lock()
	s.eicEnabled = false
	s.mu.Unlock()
	s.rec("eic.swrst")
}
func (e *eic) SyncBusy() bool { return !(*State)(e).gate("eic.sync") }
func (e *eic) SetDebouncePrescaler(v uint32) {
	e.structural("eic.dprescaler=" + strconv.FormatUint(uint64(v), 16))
}
func (e *eic) EnableDebounce(line int) {
	e.structural("eic.debounceen+=" + strconv.Itoa(line))
	s := (*State)(e)
	s.mu.Lock()
	s.debounceEn[line] = true
	s.mu.Unlock()
}
func (e *eic) SetSense(line int, sn chip.Sense) {
	e.structural("eic.sense" + strconv.Itoa(line) + "=" + strconv.Itoa(int(sn)))
	s := (*State)(e)
	s.mu.Lock()
	s.sense[line] = sn
	s.mu.Unlock()
}
func (e *eic) EnableLineInterrupt(line int) {
	s := (*State)(e)
	s.rec("eic.intenset+=" + strconv.Itoa(line))
	s.mu.Lock()
	s.lineIntEn[line] = true
	s.mu.Unlock()
}
func (e *eic) Enable() {
	s := (*State)(e)
	s.mu.Lock()
	s.eicEnabled = true
	s.mu.Unlock()
	s.rec("eic.enable")
}
func (e *eic) PinState(line int) bool {
	s := (*State)(e)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pinState[line]
}
func (e *eic) AckLine(line int) { (*State)(e).rec("eic.intflag.ack=" + strconv.Itoa(line)) }
func (e *eic) SetHandler(line int, fn func()) error {
	if line < 0 || line > 15 {
		return errcode.UnknownLine
	}
	s := (*State)(e)
	s.mu.Lock()
	s.eicHandlers[line] = fn
	s.mu.Unlock()
	return nil
}

// ---- Port ----

type port State

func (p *port) DirSet(pin int) {
	s := (*State)(p)
	s.rec("port.dirset=" + strconv.Itoa(pin))
	s.mu.Lock()
	s.dirOut[pin] = true
	s.mu.Unlock()
}
func (p *port) DirClr(pin int) {
	s := (*State)(p)
	s.rec("port.dirclr=" + strconv.Itoa(pin))
	s.mu.Lock()
	s.dirOut[pin] = false
	s.mu.Unlock()
}
func (p *port) EnableInput(pin int) { (*State)(p).rec("port.inen=" + strconv.Itoa(pin)) }
func (p *port) EnablePull(pin int, up bool) {
	dir := "down"
	if up {
		dir = "up"
	}
	(*State)(p).rec("port.pull=" + strconv.Itoa(pin) + ":" + dir)
}
func (p *port) ConnectMux(pin int, fn uint8) {
	(*State)(p).rec("port.pmux=" + strconv.Itoa(pin) + ":" + strconv.Itoa(int(fn)))
}
func (p *port) Out(pin int, high bool) {
	s := (*State)(p)
	s.mu.Lock()
	s.outLevel[pin] = high
	s.mu.Unlock()
}
func (p *port) In(pin int) bool {
	s := (*State)(p)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inLevel[pin]
}
func (p *port) Toggle(pin int) {
	s := (*State)(p)
	s.mu.Lock()
	s.outLevel[pin] = !s.outLevel[pin]
	s.mu.Unlock()
}

// ---- TC ----

type tc State

func (t *tc) Reset()          { (*State)(t).rec("tc.swrst") }
func (t *tc) ResetBusy() bool { return !(*State)(t).gate("tc.swrst") }
func (t *tc) Configure16Bit(p chip.Prescale) {
	(*State)(t).rec("tc.mode16/prescale" + strconv.Itoa(int(p)))
}
func (t *tc) SetMatchFrequency() { (*State)(t).rec("tc.wave=mfrq") }
func (t *tc) SetTop(top uint16) {
	s := (*State)(t)
	s.rec("tc.top=" + strconv.Itoa(int(top)))
	s.mu.Lock()
	s.tcTop = top
	s.mu.Unlock()
}
func (t *tc) Enable() {
	s := (*State)(t)
	s.mu.Lock()
	s.tcRunning = true
	s.mu.Unlock()
	s.rec("tc.enable")
}
func (t *tc) Count() uint16 {
	s := (*State)(t)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tcCount
}

// ---- IRQ controller ----

type irqctrl State

func (n *irqctrl) SetPriority(irq chip.IRQ, prio uint8) {
	(*State)(n).rec("nvic.prio" + strconv.Itoa(int(irq)) + "=" + strconv.Itoa(int(prio)))
}
func (n *irqctrl) Enable(irq chip.IRQ) {
	s := (*State)(n)
	s.rec("nvic.enable=" + strconv.Itoa(int(irq)))
	s.mu.Lock()
	s.irqEnabled[irq] = true
	s.mu.Unlock()
}
func (n *irqctrl) EnableGlobal() {
	s := (*State)(n)
	s.mu.Lock()
	s.globalIRQ = true
	s.mu.Unlock()
	s.rec("nvic.global")
}
func (n *irqctrl) SetHandler(irq chip.IRQ, fn func()) error {
	// Negative numbers name core exceptions (SysTick is -1); both spaces
	// share the handler table here.
	if fn == nil {
		return errcode.InvalidParams
	}
	s := (*State)(n)
	s.mu.Lock()
	s.irqHandlers[irq] = fn
	s.mu.Unlock()
	return nil
}
