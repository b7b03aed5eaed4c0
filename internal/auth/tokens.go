package auth

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/golang-jwt/jwt/v5"

	"github.com/cinevault/cinevault-server/internal/id"
)

// Token formats accepted by NewTokenService.
const (
	FormatPaseto = "paseto"
	FormatJWT    = "jwt"
)

// DefaultTokenDuration is the lifetime of issued tokens.
const DefaultTokenDuration = 24 * time.Hour

// TokenConfig configures NewTokenService.
type TokenConfig struct {
	Format    string
	Issuer    string
	Duration  time.Duration
	PasetoKey paseto.V4SymmetricKey
	JWTSecret []byte
}

// NewTokenService builds the TokenService for cfg.Format.
func NewTokenService(cfg TokenConfig) (TokenService, error) {
	if cfg.Duration <= 0 {
		cfg.Duration = DefaultTokenDuration
	}
	switch cfg.Format {
	case FormatPaseto, "":
		return &PasetoTokens{key: cfg.PasetoKey, issuer: cfg.Issuer, duration: cfg.Duration, now: time.Now}, nil
	case FormatJWT:
		if len(cfg.JWTSecret) == 0 {
			return nil, errors.New("jwt token format requires a secret")
		}
		return &JWTTokens{secret: cfg.JWTSecret, issuer: cfg.Issuer, duration: cfg.Duration, now: time.Now}, nil
	default:
		return nil, fmt.Errorf("unknown token format %q", cfg.Format)
	}
}

func newClaims(email, issuer string, now time.Time, duration time.Duration) (Claims, error) {
	tokenID, err := id.Generate("tok")
	if err != nil {
		return Claims{}, fmt.Errorf("generate token ID: %w", err)
	}
	now = now.Truncate(time.Second)
	return Claims{
		Email:     email,
		Issuer:    issuer,
		IssuedAt:  now,
		ExpiresAt: now.Add(duration),
		TokenID:   tokenID,
	}, nil
}

// PasetoTokens issues PASETO v4.local tokens. The claims are encrypted, so
// the email is not readable by clients.
type PasetoTokens struct {
	key      paseto.V4SymmetricKey
	issuer   string
	duration time.Duration
	now      func() time.Time
}

// Issue implements TokenService.
func (p *PasetoTokens) Issue(email string) (string, Claims, error) {
	claims, err := newClaims(email, p.issuer, p.now(), p.duration)
	if err != nil {
		return "", Claims{}, err
	}

	token := paseto.NewToken()
	token.SetIssuer(claims.Issuer)
	token.SetSubject(claims.Email)
	token.SetIssuedAt(claims.IssuedAt)
	token.SetNotBefore(claims.IssuedAt)
	token.SetExpiration(claims.ExpiresAt)
	token.SetJti(claims.TokenID)
	if err := token.Set("email", claims.Email); err != nil {
		return "", Claims{}, fmt.Errorf("set email claim: %w", err)
	}

	return token.V4Encrypt(p.key, nil), claims, nil
}

// Verify implements TokenService.
func (p *PasetoTokens) Verify(tokenString string) (Claims, error) {
	// Expiry is checked below so it can be told apart from other failures.
	parser := paseto.NewParserWithoutExpiryCheck()
	if p.issuer != "" {
		parser.AddRule(paseto.IssuedBy(p.issuer))
	}

	token, err := parser.ParseV4Local(p.key, tokenString, nil)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	var claims Claims
	if claims.Email, err = token.GetString("email"); err != nil || claims.Email == "" {
		return Claims{}, fmt.Errorf("%w: missing email claim", ErrTokenInvalid)
	}
	if claims.ExpiresAt, err = token.GetExpiration(); err != nil {
		return Claims{}, fmt.Errorf("%w: missing exp claim", ErrTokenInvalid)
	}
	claims.IssuedAt, _ = token.GetIssuedAt()
	claims.Issuer, _ = token.GetIssuer()
	claims.TokenID, _ = token.GetJti()

	if !p.now().Before(claims.ExpiresAt) {
		return Claims{}, ErrTokenExpired
	}
	return claims, nil
}

// JWTTokens issues HS256 JWTs. Tokens carry {email, iat, exp} like those of
// earlier deployments, so existing clients keep working with the same secret.
type JWTTokens struct {
	secret   []byte
	issuer   string
	duration time.Duration
	now      func() time.Time
}

type jwtClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issue implements TokenService.
func (j *JWTTokens) Issue(email string) (string, Claims, error) {
	claims, err := newClaims(email, j.issuer, j.now(), j.duration)
	if err != nil {
		return "", Claims{}, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		Email: claims.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    claims.Issuer,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
			ID:        claims.TokenID,
		},
	})

	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify implements TokenService.
func (j *JWTTokens) Verify(tokenString string) (Claims, error) {
	var parsed jwtClaims
	_, err := jwt.ParseWithClaims(tokenString, &parsed,
		func(*jwt.Token) (any, error) { return j.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	case err != nil:
		return Claims{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	case parsed.Email == "":
		return Claims{}, fmt.Errorf("%w: missing email claim", ErrTokenInvalid)
	}

	claims := Claims{
		Email:     parsed.Email,
		Issuer:    parsed.Issuer,
		ExpiresAt: parsed.ExpiresAt.Time,
		TokenID:   parsed.ID,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time
	}
	return claims, nil
}
