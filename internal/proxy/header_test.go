package proxy

import "testing"

func TestAllowHeader(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Authorization", true},
		{"authorization", true},
		{"AUTHORIZATION", true},
		{"Content-Type", true},
		{"Accept", true},
		{"User-Agent", true},
		{"X-Request-ID", true},
		{"x-custom", true},
		{"X-", true},
		{"Host", false},
		{"Connection", false},
		{"Transfer-Encoding", false},
		{"Cookie", false},
		{"Accept-Encoding", false},
		{"Content-Length", false},
		{"Authorization2", false},
		{"Xforwarded", false},
		{"", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := AllowHeader(tc.name); got != tc.want {
				t.Errorf("AllowHeader(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}
