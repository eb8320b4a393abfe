package auth

import (
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/user"
)

var ErrForbidden = errors.New("permission denied")

// Authorize allows principal only if it has exactly the required role.
func Authorize(principal user.User, required user.Role) error {
	if principal.Role != required {
		return ErrForbidden
	}
	return nil
}

// AuthorizeOwner allows principal only on records it owns.
func AuthorizeOwner(principal user.User, ownerID int) error {
	if principal.ID != ownerID {
		return ErrForbidden
	}
	return nil
}
