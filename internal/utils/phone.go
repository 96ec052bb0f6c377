package utils

import (
	"fmt"
	"strings"
)

// NormalizeMSISDN converts a Kenyan phone number into the 2547XXXXXXXX /
// 2541XXXXXXXX form Daraja expects. Accepts "07...", "01...", "+254..."
// and already-normalized input.
func NormalizeMSISDN(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "+")
	s = strings.NewReplacer(" ", "", "-", "").Replace(s)

	if s == "" {
		return "", fmt.Errorf("empty phone number")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("phone number contains non-digits")
		}
	}

	switch {
	case strings.HasPrefix(s, "254") && len(s) == 12:
		return s, nil
	case (strings.HasPrefix(s, "07") || strings.HasPrefix(s, "01")) && len(s) == 10:
		return "254" + s[1:], nil
	case (strings.HasPrefix(s, "7") || strings.HasPrefix(s, "1")) && len(s) == 9:
		return "254" + s, nil
	}
	return "", fmt.Errorf("unrecognized phone number format")
}
