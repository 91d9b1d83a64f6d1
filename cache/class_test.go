package cache

import (
	"testing"
	"time"
)

func TestClass_TTL(t *testing.T) {
	tests := []struct {
		class Class
		want  time.Duration
	}{
		{ClassHTTP, time.Hour},
		{ClassLLM, 7 * 24 * time.Hour},
		{ClassQuery, 5 * time.Minute},
		{Class("unknown"), time.Hour},
	}

	for _, tt := range tests {
		if got := tt.class.TTL(); got != tt.want {
			t.Errorf("Class(%q).TTL() = %v, want %v", tt.class, got, tt.want)
		}
	}
}

func TestPolicy_EffectiveTTL(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		want   time.Duration
	}{
		{"zero value defaults to http", Policy{}, time.Hour},
		{"class default", Policy{Class: ClassQuery}, 5 * time.Minute},
		{"override wins", Policy{Class: ClassLLM, TTL: 30 * time.Second}, 30 * time.Second},
		{"disabled", Policy{Class: ClassLLM, Disabled: true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.EffectiveTTL(); got != tt.want {
				t.Errorf("EffectiveTTL() = %v, want %v", got, tt.want)
			}
		})
	}
}
