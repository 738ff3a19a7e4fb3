package commands

import (
	"testing"
)

func TestParseTaskNumber_Valid(t *testing.T) {
	n, err := ParseTaskNumber([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 5 {
		t.Errorf("expected 5, got %d", n)
	}
}

func TestParseTaskNumber_LeadingZeros(t *testing.T) {
	n, err := ParseTaskNumber([]string{"007"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 7 {
		t.Errorf("expected 7, got %d", n)
	}
}

func TestParseTaskNumber_NoArgs_Error(t *testing.T) {
	_, err := ParseTaskNumber(nil)
	if err != ErrTaskNumberRequired {
		t.Errorf("expected ErrTaskNumberRequired, got %v", err)
	}
}

func TestParseTaskNumber_Errors(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"abc"}, "invalid task number: abc"},
		{[]string{"-1"}, "invalid task number: -1"},
		{[]string{"1.5"}, "invalid task number: 1.5"},
		{[]string{"0"}, "task number out of range: 0"},
		{[]string{"1", "2"}, "unexpected argument: 2"},
		{[]string{"99999999999999999999999"}, "invalid task number: 99999999999999999999999"},
	}

	for _, tt := range tests {
		_, err := ParseTaskNumber(tt.args)
		if err == nil {
			t.Errorf("ParseTaskNumber(%q): expected error", tt.args)
			continue
		}
		if err.Error() != tt.want {
			t.Errorf("ParseTaskNumber(%q) = %q, want %q", tt.args, err.Error(), tt.want)
		}
	}
}
