package id

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateID creates a unique 16-character lowercase hex ID.
func GenerateID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// RequestID returns a full UUID for correlating log lines of one request.
func RequestID() string {
	return uuid.NewString()
}
