package source

import "testing"

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 15}

	got := a.Cover(b)
	if got.Start != 5 || got.End != 20 {
		t.Errorf("expected 5-20, got %d-%d", got.Start, got.End)
	}

	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Error("covering a span in another file must be a no-op")
	}
}

func TestSpanOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Span
		want bool
	}{
		{"disjoint", Span{0, 0, 5}, Span{0, 5, 10}, false},
		{"overlap", Span{0, 0, 6}, Span{0, 5, 10}, true},
		{"nested", Span{0, 0, 10}, Span{0, 3, 4}, true},
		{"two empty", Span{0, 3, 3}, Span{0, 3, 3}, false},
		{"empty inside", Span{0, 3, 3}, Span{0, 0, 10}, true},
		{"empty at start boundary", Span{0, 0, 0}, Span{0, 0, 10}, false},
		{"empty at end", Span{0, 10, 10}, Span{0, 0, 10}, false},
		{"different files", Span{0, 0, 10}, Span{1, 0, 10}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Errorf("symmetric: expected %v, got %v", tc.want, got)
			}
		})
	}
}
