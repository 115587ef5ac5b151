package pipeline

import (
	"strings"
	"testing"
)

func TestSelectRingsBelowMinimumFails(t *testing.T) {
	radii := []int{20, 45, 70}

	selected, msg := selectRings(radii, 5, 30)
	if selected != nil {
		t.Errorf("selected = %v, want nil on failure", selected)
	}
	if msg == "" {
		t.Fatal("want a failure message when too few rings are detected")
	}
	if !strings.Contains(msg, "(3)") || !strings.Contains(msg, "(5)") {
		t.Errorf("message %q should state detected and required counts", msg)
	}
}

func TestSelectRingsTruncatesToInnermost(t *testing.T) {
	radii := []int{15, 30, 45, 60, 75, 90, 105}

	selected, msg := selectRings(radii, 2, 4)
	if msg != "" {
		t.Fatalf("unexpected failure: %s", msg)
	}
	want := []int{15, 30, 45, 60}
	if len(selected) != len(want) {
		t.Fatalf("selected %v, want innermost %v", selected, want)
	}
	for i := range want {
		if selected[i] != want[i] {
			t.Errorf("selected[%d] = %d, want %d", i, selected[i], want[i])
		}
	}
}

func TestSelectRingsExactCountPasses(t *testing.T) {
	radii := []int{10, 20, 30}

	selected, msg := selectRings(radii, 3, 3)
	if msg != "" {
		t.Fatalf("unexpected failure: %s", msg)
	}
	if len(selected) != 3 {
		t.Errorf("selected %v, want all three rings", selected)
	}
}
