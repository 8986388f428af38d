package util

import "testing"

func TestTruncateForLog(t *testing.T) {
	cases := []struct {
		input    string
		limit    int
		expected string
	}{
		{"hello world", 20, "hello world"},
		{"hello world", 5, "hello..."},
		{"  padded  ", 20, "padded"},
		{"anything", 0, ""},
		{"héllo wörld", 5, "héllo..."},
	}

	for _, tc := range cases {
		if got := TruncateForLog(tc.input, tc.limit); got != tc.expected {
			t.Errorf("TruncateForLog(%q, %d) = %q, expected %q", tc.input, tc.limit, got, tc.expected)
		}
	}
}
