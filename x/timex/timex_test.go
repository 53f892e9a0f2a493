package timex

import "testing"

func TestTicksForPeriod(t *testing.T) {
	type C struct {
		periodMs, tickHz, want uint32
	}
	for _, c := range []C{
		{2000, 3906, 7812},
		{1000, 1000, 1000},
		{1, 3906, 4},
		{0, 3906, 0},
	} {
		if got := TicksForPeriod(c.periodMs, c.tickHz); got != c.want {
			t.Fatalf("TicksForPeriod(%d,%d) = %d, want %d", c.periodMs, c.tickHz, got, c.want)
		}
	}
}
