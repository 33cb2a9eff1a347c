package util

import "testing"

func TestShellQuote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"simple", "'simple'"},
		{"with space", "'with space'"},
		{"with'quote", "'with'\\''quote'"},
		{"", "''"},
		{"$variable", "'$variable'"},
		{"$(command)", "'$(command)'"},
		{"`backtick`", "'`backtick`'"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ShellQuote(tt.input)
			if got != tt.expected {
				t.Errorf("ShellQuote(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestShellArg(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"nginx", "nginx"},
		{"php8.1-fpm", "php8.1-fpm"},
		{"getty@tty1.service", "getty@tty1.service"},
		{"", "''"},
		{"nginx; reboot", "'nginx; reboot'"},
		{"$(id)", "'$(id)'"},
		{"it's", "'it'\\''s'"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ShellArg(tt.input)
			if got != tt.expected {
				t.Errorf("ShellArg(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
