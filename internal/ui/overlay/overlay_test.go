package overlay

import "testing"

func TestPlace(t *testing.T) {
	base := "aaaaaa\nbbbbbb\ncccccc"
	got := Place(base, "XY\nZW", 2, 1, 6)
	want := "aaaaaa\nbbXYbb\nccZWcc"
	if got != want {
		t.Errorf("Place() = %q, want %q", got, want)
	}
}

func TestPlace_PadsShortLines(t *testing.T) {
	got := Place("ab", "X", 4, 0, 6)
	if got != "ab  X " {
		t.Errorf("Place() = %q", got)
	}
}

func TestPlace_DropsRowsOutsideBase(t *testing.T) {
	got := Place("aaa", "X\nY", 0, 0, 3)
	if got != "Xaa" {
		t.Errorf("Place() = %q", got)
	}
}

func TestCenter(t *testing.T) {
	base := "......\n......\n......"
	got := Center(base, "##", 6)
	want := "......\n..##..\n......"
	if got != want {
		t.Errorf("Center() = %q, want %q", got, want)
	}
}
