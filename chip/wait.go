package chip

import "github.com/Lolfaceftw/USART/errcode"

// Gate is a live-polled hardware ready condition. Each call rereads status;
// results are never cached.
type Gate func() bool

// WaitFunc blocks until the named gate reports ready. The name identifies the
// condition for tracing and diagnostics only.
type WaitFunc func(name string, gate Gate)

// Spin is the production wait policy: an unbounded busy-wait. A gate that
// never becomes true halts forward progress permanently, which is the intended
// fail-stop behaviour for bring-up code with no safe degraded mode.
func Spin(name string, gate Gate) {
	for !gate() {
	}
}

// BoundedWait returns a policy that polls at most n times and then panics with
// errcode.Timeout. Intended for hosted environments where a hang would mask
// the failure instead of reporting it.
func BoundedWait(n int) WaitFunc {
	return func(name string, gate Gate) {
		for i := 0; i < n; i++ {
			if gate() {
				return
			}
		}
		panic(&errcode.E{C: errcode.Timeout, Op: "chip.wait", Msg: name})
	}
}
