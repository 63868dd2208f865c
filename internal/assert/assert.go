// Package assert checks programmer contracts on the per-frame hot path.
//
// Assertions are on by default and panic with a "stroketess: " prefix.
// Building with the stroketess_release tag compiles them out; callers
// must not rely on a failed assertion for control flow.
package assert

import "fmt"

// Fail panics with a formatted contract violation message.
func Fail(format string, args ...any) {
	panic("stroketess: " + fmt.Sprintf(format, args...))
}
