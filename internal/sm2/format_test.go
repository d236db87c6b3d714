package sm2

import "testing"

func TestFormatInterval(t *testing.T) {
	testCases := []struct {
		days     float64
		expected string
	}{
		{0.5, "12h"},
		{0, "0h"},
		{1, "1d"},
		{3, "3d"},
		{29.4, "29d"},
		{30, "1mo"},
		{60, "2mo"},
		{364, "12mo"},
		{365, "1y"},
		{400, "1y"},
		{800, "2y"},
	}

	for _, tc := range testCases {
		if got := FormatInterval(tc.days); got != tc.expected {
			t.Errorf("FormatInterval(%v) = %q, want %q", tc.days, got, tc.expected)
		}
	}
}
