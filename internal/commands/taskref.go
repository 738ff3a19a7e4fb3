package commands

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrTaskNumberRequired indicates no task number was provided.
var ErrTaskNumberRequired = errors.New("task number required")

// ParseTaskNumber parses the 1-based task number shown by `pomo list`.
// Exactly one positional argument of ASCII digits is accepted.
func ParseTaskNumber(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskNumberRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}

	ref := args[0]
	if !isAllDigits(ref) {
		return 0, fmt.Errorf("invalid task number: %s", ref)
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("invalid task number: %s", ref)
	}
	if n < 1 {
		return 0, fmt.Errorf("task number out of range: %d", n)
	}
	return n, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
