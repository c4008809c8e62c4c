// internal/utils/crypto_test.go
package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderToken(t *testing.T) {
	token := GenerateOrderToken()
	assert.Len(t, token, 32)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), token)

	assert.NotEqual(t, token, GenerateOrderToken())
}
