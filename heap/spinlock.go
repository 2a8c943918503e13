package heap

import (
	"runtime"
	"sync/atomic"
)

// spinLock is the mutual exclusion primitive for the facade. A plain CAS
// spin is the right shape for a no-OS target: no scheduler handshake, no
// allocation, no suspension points. Critical sections here are short and
// bounded, so spinning stays cheap.
type spinLock struct {
	state atomic.Uint32
}

func (l *spinLock) lock() {
	for !l.state.CompareAndSwap(0, 1) {
		// On a hosted runtime, yield so the holder can make progress
		// when GOMAXPROCS=1. On a single-core bare target this loop is
		// only ever entered from a different interrupt context.
		runtime.Gosched()
	}
}

func (l *spinLock) unlock() {
	l.state.Store(0)
}
