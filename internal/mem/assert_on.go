//go:build heapassert

package mem

import "fmt"

// AssertEnabled reports whether debug assertions are compiled in.
const AssertEnabled = true

// Assert panics with a formatted message when cond is false. Only compiled
// in under the heapassert build tag; release builds pay nothing.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("heap assertion failed: "+format, args...))
	}
}
