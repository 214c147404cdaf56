package detector

import (
	"bytes"
	"testing"
)

func TestMeanByte_IsPlaceholder(t *testing.T) {
	d := NewMeanByte(0) // default threshold

	tests := []struct {
		name     string
		frame    []byte
		expected bool
	}{
		{"empty payload", nil, true},
		{"single white byte", []byte{0xFF}, true},
		{"all white", bytes.Repeat([]byte{0xFF}, 4096), true},
		{"all black", bytes.Repeat([]byte{0x00}, 4096), false},
		{"mid gray", bytes.Repeat([]byte{0x80}, 4096), false},
		{"exactly at threshold", bytes.Repeat([]byte{250}, 1024), false},
		{"just above threshold", bytes.Repeat([]byte{251}, 1024), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.IsPlaceholder(tt.frame); got != tt.expected {
				t.Errorf("IsPlaceholder(%s) = %v, expected %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestMeanByte_CustomThreshold(t *testing.T) {
	d := NewMeanByte(100)

	if !d.IsPlaceholder(bytes.Repeat([]byte{0x80}, 64)) {
		t.Error("mean 128 should exceed threshold 100")
	}
	if d.IsPlaceholder(bytes.Repeat([]byte{0x40}, 64)) {
		t.Error("mean 64 should not exceed threshold 100")
	}
}

func TestMeanByte_MixedContent(t *testing.T) {
	// Half white, half black: mean 127.5, well below the default threshold.
	frame := append(bytes.Repeat([]byte{0xFF}, 512), bytes.Repeat([]byte{0x00}, 512)...)

	d := NewMeanByte(0)
	if d.IsPlaceholder(frame) {
		t.Error("a frame with real contrast should not classify as placeholder")
	}
}
