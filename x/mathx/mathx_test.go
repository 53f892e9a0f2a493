package mathx

import "testing"

func TestClamp(t *testing.T) {
	type C struct{ v, lo, hi, want int }
	for _, c := range []C{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0, 0, 0, 0},
	} {
		if got := Clamp(c.v, c.lo, c.hi); got != c.want {
			t.Fatalf("Clamp(%d,%d,%d) = %d, want %d", c.v, c.lo, c.hi, got, c.want)
		}
	}
	if got := Clamp(1.5, 0.0, 1.0); got != 1.0 {
		t.Fatalf("Clamp float = %v, want 1", got)
	}
}

func TestMax(t *testing.T) {
	if got := Max(uint32(0), 1); got != 1 {
		t.Fatalf("Max(0,1) = %d", got)
	}
	if got := Max(7, 7); got != 7 {
		t.Fatalf("Max(7,7) = %d", got)
	}
}

func TestRoundDiv(t *testing.T) {
	if got := RoundDiv(uint64(7), 2); got != 4 {
		t.Fatalf("RoundDiv(7,2) = %d", got)
	}
	if got := RoundDiv(uint64(6), 4); got != 2 {
		t.Fatalf("RoundDiv(6,4) = %d", got)
	}
}
