package idgen

import (
	"strings"
	"testing"
)

func TestGenerateSecureID(t *testing.T) {
	tests := []struct {
		name       string
		prefix     string
		length     int
		wantPrefix string
	}{
		{
			name:       "generate user ID",
			prefix:     "user",
			length:     24,
			wantPrefix: "user_",
		},
		{
			name:       "generate video ID",
			prefix:     "vid",
			length:     24,
			wantPrefix: "vid_",
		},
		{
			name:       "generate short ID",
			prefix:     "test",
			length:     8,
			wantPrefix: "test_",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateSecureID(tt.prefix, tt.length)
			if err != nil {
				t.Fatalf("GenerateSecureID() error = %v", err)
			}
			if !strings.HasPrefix(id, tt.wantPrefix) {
				t.Fatalf("GenerateSecureID() = %v, want prefix %v", id, tt.wantPrefix)
			}
			if len(id) != len(tt.wantPrefix)+tt.length {
				t.Fatalf("GenerateSecureID() length = %d, want %d", len(id), len(tt.wantPrefix)+tt.length)
			}
			for _, ch := range id[len(tt.wantPrefix):] {
				if !((ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'z')) {
					t.Fatalf("GenerateSecureID() contains invalid character %q in %v", ch, id)
				}
			}
		})
	}
}

func TestGenerateSecureIDUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := GenerateSecureID("vid", 24)
		if err != nil {
			t.Fatalf("GenerateSecureID() error = %v", err)
		}
		if seen[id] {
			t.Fatalf("GenerateSecureID() produced duplicate %v", id)
		}
		seen[id] = true
	}
}

func TestIsValid(t *testing.T) {
	valid, err := NewVideoID()
	if err != nil {
		t.Fatalf("NewVideoID() error = %v", err)
	}

	tests := []struct {
		name   string
		id     string
		prefix string
		want   bool
	}{
		{"generated id", valid, "vid", true},
		{"empty", "", "vid", false},
		{"prefix only", "vid_", "vid", false},
		{"wrong prefix", "user_abc123", "vid", false},
		{"uppercase", "vid_ABC123", "vid", false},
		{"special characters", "vid_abc-123", "vid", false},
		{"missing underscore", "vidabc123", "vid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.id, tt.prefix); got != tt.want {
				t.Fatalf("IsValid(%q, %q) = %v, want %v", tt.id, tt.prefix, got, tt.want)
			}
		})
	}
}
