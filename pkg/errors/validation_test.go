package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "noise", false},
		{"valid with dash", "noise-1", false},
		{"valid uuid", "3f2a1c4e-8d9b-4a7f-b6e5-1c2d3e4f5a6b", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxIDLength+1), true},
		{"space", "my node", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateGraphPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode Code
	}{
		{"json", "graph.json", ""},
		{"toml", "dir/graph.toml", ""},
		{"hcl upper", "GRAPH.HCL", ""},
		{"empty", "", ErrCodeInvalidPath},
		{"null byte", "a\x00.json", ErrCodeInvalidPath},
		{"yaml", "graph.yaml", ErrCodeInvalidFormat},
		{"no extension", "graph", ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGraphPath(tt.input)
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("ValidateGraphPath(%q) code = %q, want %q", tt.input, got, tt.wantCode)
			}
		})
	}
}
