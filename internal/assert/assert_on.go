//go:build !stroketess_release

package assert

// Enabled reports whether assertions are compiled in.
const Enabled = true

// That panics with the formatted message when cond is false.
func That(cond bool, format string, args ...any) {
	if !cond {
		Fail(format, args...)
	}
}
