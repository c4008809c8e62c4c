// internal/utils/crypto.go
package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateOrderToken mints an opaque guest-access token: a v4 UUID with the
// dashes stripped. It is a lookup key, not a credential, and is stored as-is.
func GenerateOrderToken() string {
	return strings.ToLower(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
