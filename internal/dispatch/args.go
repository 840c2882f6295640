package dispatch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/m3rciful/planbot/internal/domain"
)

// splitArgs splits a raw argument tail on commas when it contains any,
// otherwise on whitespace. Parts are trimmed.
func splitArgs(tail string) []string {
	tail = strings.TrimSpace(tail)
	if tail == "" {
		return nil
	}
	var parts []string
	if strings.Contains(tail, ",") {
		parts = strings.Split(tail, ",")
	} else {
		parts = strings.Fields(tail)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseArgs returns exactly n non-empty arguments or a validation error.
func parseArgs(op, tail string, n int) ([]string, error) {
	parts := splitArgs(tail)
	if len(parts) != n {
		return nil, domain.Validation(op, fmt.Sprintf("expected %d arguments, got %d", n, len(parts)), nil)
	}
	for i, p := range parts {
		if p == "" {
			return nil, domain.Validation(op, fmt.Sprintf("argument %d is empty", i+1), nil)
		}
	}
	return parts, nil
}

// parseID parses a single positive record id.
func parseID(op, tail string) (int64, error) {
	parts, err := parseArgs(op, tail, 1)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validation(op, fmt.Sprintf("invalid id %q", parts[0]), err)
	}
	return id, nil
}

func parseDate(op, layout, s string) (domain.Date, error) {
	d, err := domain.ParseDate(layout, s)
	if err != nil {
		return domain.Date{}, domain.Validation(op, fmt.Sprintf("invalid date %q", s), err)
	}
	return d, nil
}
