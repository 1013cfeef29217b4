package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smolnikov/readhub/internal/common"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := common.GenerateRandByteArray(SaltSize)

	k1 := DeriveKey([]byte("Password1"), salt)
	k2 := DeriveKey([]byte("Password1"), salt)

	assert.Len(t, k1, 32)
	assert.Equal(t, k1, k2, "same password and salt must derive the same key")
}

func TestDeriveKey_SaltMatters(t *testing.T) {
	k1 := DeriveKey([]byte("Password1"), []byte("salt-one"))
	k2 := DeriveKey([]byte("Password1"), []byte("salt-two"))

	assert.NotEqual(t, k1, k2)
}

func TestCheckVerifier(t *testing.T) {
	salt := common.GenerateRandByteArray(SaltSize)
	key := DeriveKey([]byte("correct horse"), salt)
	verifier := MakeVerifier(key)

	assert.True(t, CheckVerifier(verifier, MakeVerifier(DeriveKey([]byte("correct horse"), salt))))
	assert.False(t, CheckVerifier(verifier, MakeVerifier(DeriveKey([]byte("wrong"), salt))))
}
