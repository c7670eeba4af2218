package utils

import "strings"

// NewNullString trims s and returns nil when nothing is left.
// Optional columns are stored as NULL instead of "".
func NewNullString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
