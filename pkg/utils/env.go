package utils

import (
	"os"
	"strings"
)

// Getenv returns the trimmed value of key, or fallback when it is unset or blank.
func Getenv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
