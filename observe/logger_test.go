package observe

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger("debug")
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug logger does not accept debug entries")
	}

	if _, err := NewLogger("loud"); err == nil {
		t.Error("NewLogger(loud) = nil error, want error")
	}
}

func TestField_Redaction(t *testing.T) {
	f := Field("api_key", "sk-12345")
	if f.Type != zapcore.StringType || f.String != "[REDACTED]" {
		t.Errorf("Field(api_key) = %+v, want redacted string", f)
	}

	f = Field("url", "https://example.com")
	if f.String == "[REDACTED]" {
		t.Error("Field(url) was redacted, want passthrough")
	}
	if !f.Equals(zap.Any("url", "https://example.com")) {
		t.Errorf("Field(url) = %+v, want zap.Any passthrough", f)
	}
}
