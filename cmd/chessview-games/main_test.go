package main

import "testing"

func TestShortID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"0b8f3c2e-7d41-4a3e-9c55-2f6d1e8a9b70", "0b8f3c2e"},
		{"12345678", "12345678"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := shortID(tc.id); got != tc.want {
			t.Errorf("shortID(%q) = %q, want %q", tc.id, got, tc.want)
		}
	}
}
