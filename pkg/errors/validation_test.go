package errors

import (
	"strings"
	"testing"
)

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple file", "deal.svg", false},
		{"nested relative", "out/frames/deal.png", false},
		{"absolute", "/tmp/deal.json", false},
		{"dots in name", "deal..final.svg", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"traversal", "../deal.svg", true},
		{"nested traversal", "out/../../deal.svg", true},
		{"null byte", "deal\x00.svg", true},
		{"newline", "deal\n.svg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateCardLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"simple", "A♠", false},
		{"with space", "Queen of Hearts", false},

		{"too long", strings.Repeat("x", 65), true},
		{"control char", "A\x01", true},
		{"tab", "A\tB", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCardLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCardLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
