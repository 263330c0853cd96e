package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside right", 35, 15, false},
		{"outside top", 15, 5, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestRectContainsRect(t *testing.T) {
	board := NewRect(0, 0, 8, 8)

	tests := []struct {
		name     string
		inner    Rect
		expected bool
	}{
		{"fully inside", NewRect(2, 0, 3, 2), true},
		{"same size", NewRect(0, 0, 8, 8), true},
		{"touching bottom edge", NewRect(2, 6, 3, 2), true},
		{"past bottom edge", NewRect(2, 7, 3, 2), false},
		{"past right edge", NewRect(6, 0, 3, 2), false},
		{"past left edge", NewRect(-1, 0, 3, 2), false},
		{"past top edge", NewRect(2, -1, 3, 2), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := board.ContainsRect(tc.inner); got != tc.expected {
				t.Errorf("ContainsRect(%+v) = %v, expected %v", tc.inner, got, tc.expected)
			}
		})
	}
}
