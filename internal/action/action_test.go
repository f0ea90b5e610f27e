package action

import "testing"

func TestNames_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, n := range Names() {
		k, ok := Lookup(n)
		if !ok {
			t.Fatalf("Lookup(%q) failed", n)
		}
		if k.String() != n {
			t.Fatalf("expected %q; got %q", n, k.String())
		}
	}
	if _, ok := Lookup("left_click"); ok {
		t.Fatalf("mouse actions must not be bindable")
	}
}

func TestAction_String(t *testing.T) {
	t.Parallel()

	if got := Click(3, 4).String(); got != "left_click(3,4)" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Typed('x').String(); got != "char('x')" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Of(DrillDown).String(); got != "drill_down" {
		t.Fatalf("unexpected %q", got)
	}
}
