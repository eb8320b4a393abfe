package auth

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/user"
)

const bearerScheme = "bearer"

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrMalformedClaims    = errors.New("malformed token claims")
	ErrUnknownSubject     = errors.New("token subject not found")
)

// PrincipalFinder looks up users by username. It is satisfied by *user.Service.
type PrincipalFinder interface {
	GetByUsername(ctx context.Context, uname string) (user.User, error)
}

// Resolver derives the calling user from an Authorization header value.
type Resolver struct {
	tokens     *TokenService
	principals PrincipalFinder
}

func NewResolver(tokens *TokenService, principals PrincipalFinder) *Resolver {
	return &Resolver{tokens: tokens, principals: principals}
}

// Resolve returns the user whose username is the subject of the bearer token in authorization.
// Any failing stage stops the pipeline; see IsAuthFailure.
func (r *Resolver) Resolve(ctx context.Context, authorization string) (user.User, error) {
	token, err := bearerToken(authorization)
	if err != nil {
		return user.User{}, err
	}

	claims, err := r.tokens.Verify(token)
	if err != nil {
		return user.User{}, err
	}
	if claims.Subject == "" || !claims.Role.IsValid() {
		return user.User{}, ErrMalformedClaims
	}

	usr, err := r.principals.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, ErrUnknownSubject
		}
		return user.User{}, errors.Wrap(err, "finding user by username")
	}
	return usr, nil
}

// IsAuthFailure reports whether err means the caller could not be authenticated.
func IsAuthFailure(err error) bool {
	switch errors.Cause(err) {
	case ErrMissingCredentials, ErrInvalidToken, ErrMalformedClaims, ErrUnknownSubject:
		return true
	}
	return false
}

func bearerToken(authorization string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authorization), " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return "", ErrMissingCredentials
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingCredentials
	}
	return token, nil
}
