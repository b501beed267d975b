package shared

import "strconv"

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ListLimit parses a limit query value, falling back to the default and
// capping at MaxListLimit.
func ListLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
