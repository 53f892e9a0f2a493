package timex

import (
	"time"

	"github.com/Lolfaceftw/USART/x/mathx"
)

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// TicksForPeriod returns the number of timer ticks closest to periodMs at
// tickHz. Useful for computing a counter top/compare value; subtract one for
// peripherals that count [0, top].
func TicksForPeriod(periodMs, tickHz uint32) uint32 {
	return uint32(mathx.RoundDiv(uint64(periodMs)*uint64(tickHz), uint64(1000))) // ms -> ticks
}
