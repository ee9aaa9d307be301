package gemini

import (
	"strings"
	"testing"
)

func TestParseIcebreakers(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{"json", `["Hi", "Hello", "Hey"]`, 3, false},
		{"fenced", "```json\n[\"Hi\", \"Hello\"]\n```", 2, false},
		{"capped", `["1", "2", "3", "4", "5"]`, 3, false},
		{"plain list", "1. Hi there\n2. Love your photos\n", 2, false},
		{"empty", "   ", 0, true},
		{"empty array", "[]", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIcebreakers(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("got %d lines %q, want %d", len(got), got, tt.want)
			}
		})
	}
}

func TestFallbackIcebreakers(t *testing.T) {
	lines := FallbackIcebreakers([]string{"Travel", "Yoga"}, []string{"Wine", "Yoga"})
	if len(lines) != icebreakerCount || !strings.Contains(lines[0], "yoga") {
		t.Errorf("shared hobby lines = %q", lines)
	}
	lines = FallbackIcebreakers([]string{"Travel"}, []string{"Wine"})
	if len(lines) != icebreakerCount {
		t.Errorf("generic lines = %q", lines)
	}
}
