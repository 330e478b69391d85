package config

import (
	"fmt"
	"strings"
)

// requireNonEmpty fails when a variable is set but blank. cleanenv only checks
// that a required variable is present.
func requireNonEmpty(value, envName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env %s", envName)
	}
	return nil
}
