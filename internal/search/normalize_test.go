package search

import "testing"

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Go Developer (Remote)", "Go Developer"},
		{"Data Engineer [Contract]", "Data Engineer"},
		{"Backend Engineer (Remote) [Urgent]", "Backend Engineer"},
		{"Plain Title", "Plain Title"},
		{"  Spaced Title  ", "Spaced Title"},
		{"(Only Qualifier)", ""},
		{"C++ Developer (Senior) at Acme", "C++ Developer at Acme"},
	}
	for _, tt := range tests {
		if got := CleanTitle(tt.in); got != tt.want {
			t.Errorf("CleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
