package catalogue

import (
	"strconv"
	"strings"
)

// ParsePrice converts a display price such as "$1,299.99" into a number.
// Empty strings, anything mentioning "free" and unparseable input yield 0.
func ParsePrice(text string) float64 {
	if text == "" || strings.Contains(strings.ToLower(text), "free") {
		return 0
	}
	s := strings.NewReplacer("$", "", ",", "").Replace(text)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseSize converts a display size into gigabytes. "gb" and "mb" suffixes are
// recognised; a bare number is taken as gigabytes. Unparseable input yields 0.
func ParseSize(text string) float64 {
	s := strings.TrimSpace(strings.ToLower(text))
	if s == "" {
		return 0
	}

	div := 1.0
	switch {
	case strings.HasSuffix(s, "gb"):
		s = strings.TrimSuffix(s, "gb")
	case strings.HasSuffix(s, "mb"):
		s = strings.TrimSuffix(s, "mb")
		div = 1024
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v / div
}
