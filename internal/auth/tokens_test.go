package auth

import (
	"strings"
	"testing"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newServices(t *testing.T) map[string]TokenService {
	t.Helper()
	pasetoSvc, err := NewTokenService(TokenConfig{Format: FormatPaseto, Issuer: "cinevault", PasetoKey: paseto.NewV4SymmetricKey()})
	require.NoError(t, err)
	jwtSvc, err := NewTokenService(TokenConfig{Format: FormatJWT, Issuer: "cinevault", JWTSecret: testSecret})
	require.NoError(t, err)
	return map[string]TokenService{FormatPaseto: pasetoSvc, FormatJWT: jwtSvc}
}

func TestTokens_RoundTrip(t *testing.T) {
	for name, svc := range newServices(t) {
		t.Run(name, func(t *testing.T) {
			token, issued, err := svc.Issue("neo@example.com")
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.Equal(t, int64(86400), issued.ExpiresIn())
			assert.True(t, strings.HasPrefix(issued.TokenID, "tok-"))

			claims, err := svc.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, "neo@example.com", claims.Email)
			assert.Equal(t, "cinevault", claims.Issuer)
			assert.Equal(t, issued.TokenID, claims.TokenID)
			assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt, time.Second)
		})
	}
}

func TestTokens_Expired(t *testing.T) {
	for name, svc := range newServices(t) {
		t.Run(name, func(t *testing.T) {
			token, _, err := svc.Issue("neo@example.com")
			require.NoError(t, err)

			later := func() time.Time { return time.Now().Add(25 * time.Hour) }
			switch s := svc.(type) {
			case *PasetoTokens:
				s.now = later
			case *JWTTokens:
				s.now = later
			}

			_, err = svc.Verify(token)
			assert.ErrorIs(t, err, ErrTokenExpired)
		})
	}
}

func TestTokens_Invalid(t *testing.T) {
	for name, svc := range newServices(t) {
		t.Run(name, func(t *testing.T) {
			token, _, err := svc.Issue("neo@example.com")
			require.NoError(t, err)

			for _, bad := range []string{"", "garbage", token[:len(token)-4] + "AAAA", token + "x"} {
				_, err := svc.Verify(bad)
				assert.ErrorIs(t, err, ErrTokenInvalid, bad)
			}
		})
	}
}

func TestPasetoTokens_WrongKey(t *testing.T) {
	a, _ := NewTokenService(TokenConfig{Format: FormatPaseto, PasetoKey: paseto.NewV4SymmetricKey()})
	b, _ := NewTokenService(TokenConfig{Format: FormatPaseto, PasetoKey: paseto.NewV4SymmetricKey()})

	token, _, err := a.Issue("neo@example.com")
	require.NoError(t, err)

	_, err = b.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTTokens_AcceptsLegacyShape(t *testing.T) {
	svc, err := NewTokenService(TokenConfig{Format: FormatJWT, JWTSecret: testSecret})
	require.NoError(t, err)

	legacy := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "trinity@example.com",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := legacy.SignedString(testSecret)
	require.NoError(t, err)

	claims, err := svc.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "trinity@example.com", claims.Email)
}

func TestJWTTokens_RejectsOtherAlgorithms(t *testing.T) {
	svc, err := NewTokenService(TokenConfig{Format: FormatJWT, JWTSecret: testSecret})
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"email": "x@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTTokens_RequiresExpiry(t *testing.T) {
	svc, err := NewTokenService(TokenConfig{Format: FormatJWT, JWTSecret: testSecret})
	require.NoError(t, err)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "x@example.com"})
	signed, err := noExp.SignedString(testSecret)
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestNewTokenService_Config(t *testing.T) {
	_, err := NewTokenService(TokenConfig{Format: FormatJWT})
	assert.Error(t, err)

	_, err = NewTokenService(TokenConfig{Format: "opaque"})
	assert.Error(t, err)
}
