package broker

import (
	"testing"
	"time"
)

func TestTokenValid(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	margin := 60 * time.Second

	tests := []struct {
		name  string
		token Token
		want  bool
	}{
		{"empty token", Token{}, false},
		{"well before expiry", Token{Value: "t", ExpiresAt: now.Add(time.Hour)}, true},
		{"just outside margin", Token{Value: "t", ExpiresAt: now.Add(61 * time.Second)}, true},
		{"inside margin", Token{Value: "t", ExpiresAt: now.Add(30 * time.Second)}, false},
		{"exactly at margin", Token{Value: "t", ExpiresAt: now.Add(margin)}, false},
		{"already expired", Token{Value: "t", ExpiresAt: now.Add(-time.Minute)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.Valid(now, margin); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpstreamErrorTransient(t *testing.T) {
	if (&UpstreamError{StatusCode: 500}).Transient() {
		t.Error("a real upstream answer must not be transient")
	}
	if !(&UpstreamError{}).Transient() {
		t.Error("a transport failure must be transient")
	}
}
