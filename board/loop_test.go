package board

import (
	"bytes"
	"testing"
	"time"

	"github.com/Lolfaceftw/USART/bus"
	"github.com/Lolfaceftw/USART/chip"
	"github.com/Lolfaceftw/USART/chip/sim"
	"github.com/Lolfaceftw/USART/serial"
	"github.com/Lolfaceftw/USART/types"
)

func (r *testRig) ticks(n int) {
	for i := 0; i < n; i++ {
		r.core.Tick()
	}
}

func recvButton(t *testing.T, sub *bus.Subscription) types.ButtonEvent {
	t.Helper()
	select {
	case m := <-sub.Channel():
		ev, ok := m.Payload.(types.ButtonEvent)
		if !ok {
			t.Fatalf("payload %T, want ButtonEvent", m.Payload)
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("no button event")
	}
	return types.ButtonEvent{}
}

func TestPressThenReleaseReportsFinalState(t *testing.T) {
	r := newTestRig(t)
	b := bus.NewBus(8, "+", "#")
	conn := b.NewConnection("test")
	sub := conn.Subscribe(topicButton)
	r.core.cfg.Conn = conn

	r.core.Bringup()

	// Both edges land between two loop passes; only the final state is
	// observable.
	r.sim.FireEdge(r.core.cfg.ButtonLine, false)
	r.sim.FireEdge(r.core.cfg.ButtonLine, true)
	r.core.Tick()

	ev := recvButton(t, sub)
	if ev.Pressed {
		t.Error("reported pressed, want released")
	}
	if m := r.core.TakeButtonEvent(); m != 0 {
		t.Errorf("mailbox not drained: %v", m)
	}
}

func TestButtonMailboxSingleSlot(t *testing.T) {
	r := newTestRig(t)
	r.core.Bringup()

	if m := r.core.TakeButtonEvent(); m != 0 {
		t.Fatalf("empty mailbox returned %v", m)
	}
	r.sim.FireEdge(r.core.cfg.ButtonLine, false)
	if m := r.core.TakeButtonEvent(); m != ButtonPress {
		t.Fatalf("got %v, want ButtonPress", m)
	}
	if m := r.core.TakeButtonEvent(); m != 0 {
		t.Fatalf("second take returned %v, want 0", m)
	}
}

func TestUpdateWaitsOutBusyTransportThenSubmitsOnce(t *testing.T) {
	r := newTestRig(t)
	r.core.Bringup()
	r.port.SetTransmitDelay(3)

	// Banner from bring-up occupies the transport.
	r.core.Tick()
	if got := r.port.Stats().Accepted; got != 1 {
		t.Fatalf("accepted = %d, want 1", got)
	}

	// Input arrives while the banner is still draining.
	r.port.Feed([]byte{'Z'})
	r.ticks(3)
	if got := r.port.Stats().Accepted; got != 1 {
		t.Fatalf("update submitted while transport busy, accepted = %d", got)
	}

	// Transport frees up; the update goes out exactly once.
	r.ticks(6)
	st := r.port.Stats()
	if st.Accepted != 2 {
		t.Errorf("accepted = %d, want 2", st.Accepted)
	}
	if st.Rejected != 0 {
		t.Errorf("rejected = %d, want 0", st.Rejected)
	}
	if n := bytes.Count(r.out.Bytes(), []byte("5A")); n != 1 {
		t.Errorf("echo rendered %d times, want 1", n)
	}
}

func TestBannerOutranksPendingUpdate(t *testing.T) {
	r := newTestRig(t)
	r.core.Bringup()

	// Both become pending before the first transmission goes out.
	r.port.Feed([]byte{'Z'})
	r.ticks(6)

	out := r.out.Bytes()
	banner := bytes.Index(out, []byte("\x1b[2J"))
	echo := bytes.Index(out, []byte("5A"))
	if banner < 0 || echo < 0 {
		t.Fatalf("missing output: banner=%d echo=%d", banner, echo)
	}
	if banner > echo {
		t.Error("update transmitted before banner")
	}
}

func TestTickWithNothingToDoIsIdle(t *testing.T) {
	r := newTestRig(t)
	r.core.Bringup()
	r.ticks(4) // drain the banner

	before := r.port.Stats()
	outLen := r.out.Len()
	r.ticks(5)
	if after := r.port.Stats(); after != before {
		t.Errorf("stats moved with no work: %+v -> %+v", before, after)
	}
	if r.out.Len() != outLen {
		t.Error("bytes transmitted with no work")
	}
}

func (r *testRig) key(b ...byte) {
	r.port.Feed(b)
	r.core.Tick()
	r.core.Tick()
}

func TestSettingStepsAndClamps(t *testing.T) {
	r := newTestRig(t)
	r.core.Bringup()

	r.key('<')
	if got := r.core.Setting(); got != types.BlinkOff {
		t.Fatalf("setting = %v, want clamp at off", got)
	}
	steps := []types.BlinkSetting{
		types.BlinkOn, types.BlinkSlow, types.BlinkMedium, types.BlinkFast,
	}
	for _, want := range steps {
		r.key('>')
		if got := r.core.Setting(); got != want {
			t.Fatalf("setting = %v, want %v", got, want)
		}
	}
	r.key('>')
	if got := r.core.Setting(); got != types.BlinkFast {
		t.Fatalf("setting = %v, want clamp at fast", got)
	}
}

func TestArrowKeysStepSetting(t *testing.T) {
	r := newTestRig(t)
	r.core.Bringup()

	r.key(0x1b, '[', 'C')
	if got := r.core.Setting(); got != types.BlinkOn {
		t.Fatalf("setting = %v after right arrow, want on", got)
	}
	r.key(0x1b, '[', 'D')
	if got := r.core.Setting(); got != types.BlinkOff {
		t.Fatalf("setting = %v after left arrow, want off", got)
	}
}

func TestCtrlERepaintsBanner(t *testing.T) {
	r := newTestRig(t)
	r.core.Bringup()
	r.ticks(3)

	r.key(0x05)
	r.ticks(2)
	if n := bytes.Count(r.out.Bytes(), []byte("\x1b[2J")); n != 2 {
		t.Errorf("banner painted %d times, want 2", n)
	}
}

func TestNonCommandInputEchoedAsHex(t *testing.T) {
	r := newTestRig(t)
	b := bus.NewBus(8, "+", "#")
	conn := b.NewConnection("test")
	sub := conn.Subscribe(topicSerialRX)
	r.core.cfg.Conn = conn

	r.core.Bringup()
	r.ticks(3)

	r.key('H', 'i')
	r.ticks(2)
	if !bytes.Contains(r.out.Bytes(), []byte("48 69")) {
		t.Errorf("echo field missing hex dump, out = %q", r.out.String())
	}

	select {
	case m := <-sub.Channel():
		ev := m.Payload.(types.SerialRXEvent)
		if string(ev.Data) != "Hi" {
			t.Errorf("published %q, want Hi", ev.Data)
		}
	case <-time.After(time.Second):
		t.Error("no rx event published")
	}
}

func TestBreakRearmsReceive(t *testing.T) {
	r := newTestRig(t)
	r.core.Bringup()
	r.ticks(3)

	r.port.Break()
	r.ticks(2)
	r.key('Z')
	r.ticks(2)
	if !bytes.Contains(r.out.Bytes(), []byte("5A")) {
		t.Error("receive path dead after break")
	}
	if got := r.port.Stats().RxServed; got != 2 {
		t.Errorf("rx served = %d, want 2", got)
	}
}

func TestBlinkDrivesIndicator(t *testing.T) {
	r := newTestRig(t)
	r.core.Bringup()
	led := r.core.cfg.LEDPin

	r.core.Tick()
	if r.sim.OutLevel(led) {
		t.Error("indicator high with setting off")
	}

	r.key('>') // on
	if !r.sim.OutLevel(led) {
		t.Error("indicator low with setting on")
	}

	r.key('>') // slow: two phases per counter period
	r.sim.SetCount(100)
	r.core.Tick()
	if !r.sim.OutLevel(led) {
		t.Error("indicator low in first half-period")
	}
	r.sim.SetCount(4000)
	r.core.Tick()
	if r.sim.OutLevel(led) {
		t.Error("indicator high in second half-period")
	}
}

func TestBlinkSurvivesPeriodShorterThanPhases(t *testing.T) {
	s, ch := sim.New()
	out := &bytes.Buffer{}
	port := serial.NewSimPort(out)

	cfg := DefaultConfig()
	cfg.Chip = ch
	cfg.Transport = port
	cfg.Wait = chip.BoundedWait(64)
	cfg.BlinkPeriodMs = 1 // counter top below the fast setting's phase count
	s.FireEdge(cfg.ButtonLine, true)

	r := &testRig{core: New(cfg), sim: s, port: port, out: out}
	r.core.Bringup()
	for i := 0; i < 4; i++ {
		r.key('>') // step to fast
	}

	s.SetCount(2)
	r.core.Tick()
	if !s.OutLevel(cfg.LEDPin) {
		t.Error("indicator low in even slot")
	}
	s.SetCount(3)
	r.core.Tick()
	if s.OutLevel(cfg.LEDPin) {
		t.Error("indicator high in odd slot")
	}
}
