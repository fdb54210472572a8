package server

import (
	"errors"
	"strconv"
	"strings"

	searchdomain "github.com/smallbiznis/geodata/internal/search/domain"
)

// parseLimit reads an optional positive integer. Anything else yields zero,
// which the search service maps to its default. Values too large for an int
// clamp to the search cap.
func parseLimit(value string) int {
	trimmed := strings.TrimSpace(value)
	parsed, err := strconv.Atoi(trimmed)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(trimmed, "-") {
		return searchdomain.MaxLimit
	}
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

// parseFlag reads a 0/1 path flag. Other values parse as bools.
func parseFlag(value string) (bool, error) {
	trimmed := strings.TrimSpace(value)
	switch trimmed {
	case "", "0":
		return false, nil
	case "1":
		return true, nil
	}
	return strconv.ParseBool(trimmed)
}
