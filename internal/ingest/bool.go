package ingest

import (
	"fmt"
	"strings"
)

// ParseBool accepts true/yes and false/no in any case. Any other text,
// including the empty string, is an error.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes":
		return true, nil
	case "false", "no":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnrecognisedBool, s)
	}
}
