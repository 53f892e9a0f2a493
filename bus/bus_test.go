// bus/bus_test.go
package bus

import (
	"testing"
	"time"
)

func newTestBus(qlen int) *Bus { return NewBus(qlen, "+", "#") }

func expectOneOf(t *testing.T, s *Subscription, want any) {
	t.Helper()
	select {
	case got := <-s.Channel():
		if got.Payload != want {
			t.Errorf("expected payload %v, got %v", want, got.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for %v on %v", want, s.Topic())
	}
}

func expectNoMessage(t *testing.T, s *Subscription) {
	t.Helper()
	select {
	case got := <-s.Channel():
		t.Fatalf("unexpected message %v on %v", got.Payload, s.Topic())
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBasicPubSub(t *testing.T) {
	b := newTestBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("board", "button"))

	conn.Publish(conn.NewMessage(T("board", "button"), "hello", false))

	expectOneOf(t, sub, "hello")
}

func TestRetainedMessage(t *testing.T) {
	b := newTestBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("board", "setting"), "persist", true))

	sub := conn.Subscribe(T("board", "setting"))

	expectOneOf(t, sub, "persist")
}

func TestRetainedCleared(t *testing.T) {
	b := newTestBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("board", "setting"), "persist", true))
	conn.Publish(conn.NewMessage(T("board", "setting"), nil, true))

	sub := conn.Subscribe(T("board", "setting"))
	expectNoMessage(t, sub)
}

// -----------------------------------------------------------------------------
// Wildcards
// -----------------------------------------------------------------------------

func TestWildcard_SingleLevel(t *testing.T) {
	b := newTestBus(16)
	c := b.NewConnection("test")

	s1 := c.Subscribe(T("a", "+", "c"))
	s2 := c.Subscribe(T("a", "+", "+"))
	s3 := c.Subscribe(T("a", "b", "+"))
	sNo := c.Subscribe(T("a", "+", "d"))

	c.Publish(b.NewMessage(T("a", "b", "c"), "m1", false))

	expectOneOf(t, s1, "m1")
	expectOneOf(t, s2, "m1")
	expectOneOf(t, s3, "m1")
	expectNoMessage(t, sNo)

	c.Publish(b.NewMessage(T("a", "x", "y"), "m2", false))

	expectOneOf(t, s2, "m2")
	expectNoMessage(t, s1)
	expectNoMessage(t, s3)
	expectNoMessage(t, sNo)

	c.Publish(b.NewMessage(T("a", "c"), "m3", false))
	expectNoMessage(t, s1)
	expectNoMessage(t, s2)
	expectNoMessage(t, s3)
	expectNoMessage(t, sNo)
}

func TestWildcard_MultiLevel(t *testing.T) {
	b := newTestBus(16)
	c := b.NewConnection("test")

	s := c.Subscribe(T("board", "#"))

	c.Publish(b.NewMessage(T("board", "button"), "m1", false))
	expectOneOf(t, s, "m1")

	c.Publish(b.NewMessage(T("board", "serial", "rx"), "m2", false))
	expectOneOf(t, s, "m2")

	c.Publish(b.NewMessage(T("other", "x"), "m3", false))
	expectNoMessage(t, s)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := newTestBus(4)
	c := b.NewConnection("test")

	s := c.Subscribe(T("board", "button"))
	s.Unsubscribe()

	// Publishing after unsubscribe must not panic or deliver.
	c.Publish(b.NewMessage(T("board", "button"), "late", false))
}

func TestQueueOverflowDropsOldest(t *testing.T) {
	b := newTestBus(2)
	c := b.NewConnection("test")

	s := c.Subscribe(T("q"))
	for i := 0; i < 4; i++ {
		c.Publish(b.NewMessage(T("q"), i, false))
	}

	// Oldest (0, 1) dropped; 2 and 3 retained in order.
	expectOneOf(t, s, 2)
	expectOneOf(t, s, 3)
}
