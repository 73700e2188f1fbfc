package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

var (
	sessionIDPattern = regexp.MustCompile(`^ultra_session_[0-9]+_[a-f0-9]{8}$`)
	agentKeyPattern  = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)
)

// ValidateSessionID validates the client-generated session token format
func ValidateSessionID(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session id cannot be empty")
	}
	if !sessionIDPattern.MatchString(sessionID) {
		return fmt.Errorf("invalid session id format")
	}
	return nil
}

// ValidateAgentKey validates an agent catalog key
func ValidateAgentKey(agent string) error {
	if agent == "" {
		return fmt.Errorf("agent cannot be empty")
	}
	if !agentKeyPattern.MatchString(agent) {
		return fmt.Errorf("invalid agent key format (lowercase, digits, underscore only, max 64 chars)")
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

const (
	maxFormFields     = 40
	maxFormValueBytes = 20000
)

// SanitizeForm sanitizes every submitted field and rejects oversized payloads
func SanitizeForm(fields map[string]string) (map[string]string, error) {
	if len(fields) > maxFormFields {
		return nil, fmt.Errorf("too many form fields (max %d)", maxFormFields)
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if len(v) > maxFormValueBytes {
			return nil, fmt.Errorf("field %q too large (max %d bytes)", k, maxFormValueBytes)
		}
		out[SanitizeString(k)] = SanitizeString(v)
	}
	return out, nil
}
