//go:build !heapassert

package mem

// AssertEnabled reports whether debug assertions are compiled in.
const AssertEnabled = false

// Assert is a no-op in release builds. The compiler eliminates calls and
// their argument evaluation folds away for simple conditions.
func Assert(bool, string, ...any) {}
