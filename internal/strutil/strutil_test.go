package strutil

import "testing"

func TestRuneWidth(t *testing.T) {
	tests := []struct {
		name string
		r    rune
		want int
	}{
		{"ascii letter", 'x', 1},
		{"digit", '7', 1},
		{"greek", 'α', 1},
		{"wide cjk", '中', 2},
		{"combining acute counts one", '́', 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RuneWidth(tt.r); got != tt.want {
				t.Errorf("RuneWidth(%q) = %d, want %d", tt.r, got, tt.want)
			}
		})
	}
}

func TestGrow(t *testing.T) {
	buf := make([]rune, 2, 2)
	buf[0], buf[1] = 'a', 'b'

	grown := Grow(buf, 3)
	if len(grown) != 2 {
		t.Fatalf("Grow changed length: got %d, want 2", len(grown))
	}
	if cap(grown)-len(grown) < 3 {
		t.Errorf("Grow left %d free slots, want at least 3", cap(grown)-len(grown))
	}
	if string(grown) != "ab" {
		t.Errorf("Grow lost contents: %q", string(grown))
	}

	// Enough room already: same backing array.
	roomy := make([]byte, 0, 16)
	if got := Grow(roomy, 8); cap(got) != 16 {
		t.Errorf("Grow reallocated a buffer with enough room: cap %d", cap(got))
	}
}
