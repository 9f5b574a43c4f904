package common

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID generates a UUID with an optional prefix
func GenerateUUID(prefix string) string {
	id := uuid.New()
	if prefix != "" {
		return fmt.Sprintf("%s_%s", prefix, strings.ReplaceAll(id.String(), "-", ""))
	}
	return id.String()
}

// GenerateRunID generates an id for one matching run with "run" prefix
func GenerateRunID() string {
	return GenerateUUID("run")
}

// GenerateResultID generates a pair result id with "pr" prefix
func GenerateResultID() string {
	return GenerateUUID("pr")
}
