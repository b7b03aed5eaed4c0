package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_BcryptCost10(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$2a$"), hash)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, BcryptCost, cost)
}

func TestHashPassword_Rejects(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)

	_, err = HashPassword(strings.Repeat("a", MaxPasswordLength+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestVerifyPassword_Bcrypt(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "secret"))
	assert.False(t, VerifyPassword(hash, "Secret"))
	assert.False(t, VerifyPassword(hash, ""))
	assert.False(t, VerifyPassword("not-a-hash", "secret"))
}

func TestVerifyPassword_LongPasswordsTruncateLikeExistingHashes(t *testing.T) {
	long := strings.Repeat("x", 100)
	hash, err := HashPassword(long)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, long))
	assert.True(t, VerifyPassword(hash, long[:72]))
	assert.False(t, VerifyPassword(hash, long[:71]))
	assert.False(t, VerifyPassword(hash, strings.Repeat("x", MaxPasswordLength+1)))
}

func argon2Hash(t *testing.T, password string) string {
	t.Helper()
	salt := make([]byte, 16)
	_, err := rand.Read(salt)
	require.NoError(t, err)
	key := argon2.IDKey([]byte(password), salt, 1, 8*1024, 1, 32)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, 8*1024, 1, 1,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
}

func TestVerifyPassword_LegacyArgon2(t *testing.T) {
	hash := argon2Hash(t, "legacy-pass")

	assert.True(t, VerifyPassword(hash, "legacy-pass"))
	assert.False(t, VerifyPassword(hash, "legacy-pas"))
}

func TestVerifyPassword_MalformedArgon2(t *testing.T) {
	for _, h := range []string{
		"$argon2id$",
		"$argon2id$v=19$m=1,t=1,p=1$bad!$bad!",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$nonsense$c2FsdA$aGFzaA",
	} {
		assert.False(t, VerifyPassword(h, "x"), h)
	}
}
