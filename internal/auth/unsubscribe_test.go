package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnsubscribeToken_Deterministic(t *testing.T) {
	first := UnsubscribeToken("alice@example.com", "secret")
	second := UnsubscribeToken("alice@example.com", "secret")

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestVerifyUnsubscribeToken(t *testing.T) {
	token := UnsubscribeToken("alice@example.com", "secret")

	assert.True(t, VerifyUnsubscribeToken("alice@example.com", "secret", token))
	assert.False(t, VerifyUnsubscribeToken("bob@example.com", "secret", token))
	assert.False(t, VerifyUnsubscribeToken("alice@example.com", "other", token))
	assert.False(t, VerifyUnsubscribeToken("alice@example.com", "secret", "forged"))
}
