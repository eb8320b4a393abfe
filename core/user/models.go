package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/darasa/core"
)

// Role is the closed set of user roles. There is no hierarchy between roles.
type Role string

// Roles
const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

var (
	ErrInvalidRole     = errors.New("invalid role")
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes long")

	AllRoles = []Role{RoleStudent, RoleTeacher}
)

// ParseRole returns the Role named s, or ErrInvalidRole.
func ParseRole(s string) (Role, error) {
	for _, role := range AllRoles {
		if string(role) == s {
			return role, nil
		}
	}
	return "", ErrInvalidRole
}

func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string { return string(r) }

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Role         Role      `json:"role"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) bool {
	return VerifyPassword(pwd, u.PasswordHash)
}

func (u *User) IsStudent() bool { return u.Role == RoleStudent }

func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }

// VerifyPassword reports whether pwd matches the bcrypt hash.
// The comparison is done by bcrypt in constant time; any failure (including a malformed hash) is a mismatch.
func VerifyPassword(pwd string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(pwd)) == nil
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Username string `json:"username" validate:"notblank,max=100,alphanum_"`
	Password string `json:"password" validate:"required,bcryptmax"`
	Role     Role   `json:"role" validate:"required,role"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Role = Role(core.CleanString(string(nu.Role), true /* lower */))
	return validate.Struct(nu)
}

type GetFilter struct {
	ID       int
	Username string
	// ForUpdate locks the selected row until the end of the current transaction.
	ForUpdate bool
}

type QueryFilter struct {
	Role Role `query:"role"`
}
