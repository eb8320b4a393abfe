// Package auth issues and verifies session tokens, resolves the calling user from a request
// and enforces role-scoped access.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/user"
)

// TokenTTL is the lifetime of every issued token.
const TokenTTL = 30 * time.Minute

var ErrInvalidToken = errors.New("invalid token")

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	Role user.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 tokens with a secret fixed at construction.
type TokenService struct {
	key    []byte
	issuer string
	now    func() time.Time
}

func NewTokenService(secretKey []byte, issuer string) *TokenService {
	key := make([]byte, len(secretKey))
	copy(key, secretKey)
	return &TokenService{key: key, issuer: issuer, now: time.Now}
}

// Issue returns a signed token for subject, expiring TokenTTL from now.
func (ts *TokenService) Issue(subject string, role user.Role) (string, error) {
	now := ts.now().UTC()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// Verify checks the signature, algorithm, issuer and expiry of token.
// Every failure is reported as ErrInvalidToken.
func (ts *TokenService) Verify(token string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(*jwt.Token) (interface{}, error) { return ts.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ts.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(ts.now),
	)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
