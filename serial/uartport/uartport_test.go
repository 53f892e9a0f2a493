package uartport

import (
	"bytes"
	"io"
	"testing"

	"github.com/Lolfaceftw/USART/errcode"
	"github.com/Lolfaceftw/USART/serial"
)

// fakeUART is an in-memory byte-stream double: written bytes accumulate in
// wr, bytes queued in rd come back through Buffered/Read.
type fakeUART struct {
	wr bytes.Buffer
	rd []byte
}

func (f *fakeUART) Write(p []byte) (int, error) { return f.wr.Write(p) }
func (f *fakeUART) Read(p []byte) (int, error) {
	if len(f.rd) == 0 {
		return 0, io.EOF
	}
	n := copy(p, f.rd)
	f.rd = f.rd[n:]
	return n, nil
}
func (f *fakeUART) Buffered() int { return len(f.rd) }

func TestTransmitSetWrittenInOrder(t *testing.T) {
	u := &fakeUART{}
	p := New(u)

	descs := []serial.TxDescriptor{
		{Buf: []byte("\x1b[2J")},
		{Buf: []byte("hello")},
	}
	if !p.SubmitTransmit(descs) {
		t.Fatal("submit rejected on idle port")
	}
	if !p.TransmitBusy() {
		t.Fatal("port not busy after accept")
	}
	if p.SubmitTransmit(descs) {
		t.Fatal("second submit accepted while busy")
	}

	p.Service()
	if p.TransmitBusy() {
		t.Error("port still busy after service")
	}
	if got := u.wr.String(); got != "\x1b[2Jhello" {
		t.Errorf("wrote %q", got)
	}
}

func TestTransmitRejectsBadSet(t *testing.T) {
	p := New(&fakeUART{})
	if p.SubmitTransmit(nil) {
		t.Error("empty set accepted")
	}
	big := make([]serial.TxDescriptor, serial.MaxTxDescriptors+1)
	if p.SubmitTransmit(big) {
		t.Error("oversize set accepted")
	}
}

func TestReceiveCompletionAndRearm(t *testing.T) {
	u := &fakeUART{}
	p := New(u)

	var buf [8]byte
	d := serial.RxDescriptor{Buf: buf[:]}
	if err := p.SubmitReceive(&d); err != nil {
		t.Fatal(err)
	}

	p.Service() // nothing buffered yet
	if d.Kind != serial.CompletionNone {
		t.Fatalf("completed with no data: %v", d.Kind)
	}

	u.rd = []byte("ok")
	p.Service()
	if d.Kind != serial.CompletionData || d.Len != 2 {
		t.Fatalf("kind=%v len=%d", d.Kind, d.Len)
	}
	if string(d.Buf[:d.Len]) != "ok" {
		t.Errorf("got %q", d.Buf[:d.Len])
	}

	// Disarmed until resubmitted.
	u.rd = []byte("x")
	p.Service()
	if d.Len != 2 {
		t.Error("completed descriptor touched while disarmed")
	}

	d.Kind = serial.CompletionNone
	if err := p.SubmitReceive(&d); err != nil {
		t.Fatal(err)
	}
	p.Service()
	if d.Kind != serial.CompletionData || string(d.Buf[:d.Len]) != "x" {
		t.Errorf("rearm failed: kind=%v buf=%q", d.Kind, d.Buf[:d.Len])
	}
}

func TestReceiveAdministrativeErrors(t *testing.T) {
	p := New(&fakeUART{})
	if got := errcode.Of(p.SubmitReceive(nil)); got != errcode.InvalidParams {
		t.Errorf("nil descriptor: %v", got)
	}
	var a, b serial.RxDescriptor
	a.Buf = make([]byte, 4)
	b.Buf = make([]byte, 4)
	if err := p.SubmitReceive(&a); err != nil {
		t.Fatal(err)
	}
	if got := errcode.Of(p.SubmitReceive(&b)); got != errcode.RxArmed {
		t.Errorf("double arm: %v", got)
	}
}

func TestReceiveTruncatesToBuffer(t *testing.T) {
	u := &fakeUART{rd: []byte("abcdef")}
	p := New(u)

	var buf [4]byte
	d := serial.RxDescriptor{Buf: buf[:]}
	if err := p.SubmitReceive(&d); err != nil {
		t.Fatal(err)
	}
	p.Service()
	if d.Len != 4 || string(d.Buf[:d.Len]) != "abcd" {
		t.Fatalf("len=%d buf=%q", d.Len, d.Buf[:d.Len])
	}
	// Remainder stays buffered for the next arm.
	if u.Buffered() != 2 {
		t.Errorf("buffered = %d, want 2", u.Buffered())
	}
}
