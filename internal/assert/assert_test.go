package assert

import (
	"strings"
	"testing"
)

func TestThat(t *testing.T) {
	if !Enabled {
		t.Skip("assertions compiled out")
	}
	That(true, "never fires")

	defer func() {
		r := recover()
		msg, ok := r.(string)
		if !ok || !strings.HasPrefix(msg, "stroketess: ") || !strings.Contains(msg, "draw before prepare 3") {
			t.Errorf("recover() = %v, want prefixed contract message", r)
		}
	}()
	That(false, "draw before prepare %d", 3)
	t.Error("That(false) did not panic")
}
