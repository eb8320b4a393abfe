package user

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrUsernameExists     = errors.New("a user with this username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// dummyHash is compared against when the username is unknown,
	// so that a failed lookup costs as much as a wrong password.
	dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-password"), bcrypt.DefaultCost)
)

type (
	Repository interface {
		// CreateUser returns ErrUsernameExists when the username is taken.
		CreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		// GetUser returns ErrNotFound when no user matches the filter.
		GetUser(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (User, error)
		QueryUsers(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]User, error)
		UpdateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new user account. nu must have been validated.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	now := core.Now()
	usr := User{
		Username:  nu.Username,
		Role:      nu.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, passwordErr(err)
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		if errors.Cause(err) == ErrUsernameExists {
			return User{}, core.NewFieldError("username", ErrUsernameExists)
		}
		return User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

// Authenticate returns the user identified by uname & pwd.
// Unknown usernames and wrong passwords both return ErrInvalidCredentials.
func (svc *Service) Authenticate(ctx context.Context, uname, pwd string) (User, error) {
	usr, err := svc.GetByUsername(ctx, uname)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			VerifyPassword(pwd, dummyHash)
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if !usr.CheckPassword(pwd) {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{ID: id})
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (User, error) {
	uname = core.CleanString(uname, true /* lower */)
	if uname == "" {
		return User{}, ErrNotFound
	}
	return svc.repo.GetUser(ctx, GetFilter{Username: uname})
}

// QueryStudents returns all users with the student role, ordered by ID.
func (svc *Service) QueryStudents(ctx context.Context) ([]User, error) {
	return svc.repo.QueryUsers(ctx, QueryFilter{Role: RoleStudent})
}

// SetPassword replaces the password of the user identified by uname.
func (svc *Service) SetPassword(ctx context.Context, uname, pwd string) (User, error) {
	usr, err := svc.GetByUsername(ctx, uname)
	if err != nil {
		return User{}, err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return User{}, passwordErr(err)
	}
	usr.UpdatedAt = core.Now()
	return svc.repo.UpdateUser(ctx, usr)
}

// passwordErr turns bcrypt's length limit into a client error.
func passwordErr(err error) error {
	if errors.Cause(err) == bcrypt.ErrPasswordTooLong {
		return core.NewFieldError("password", ErrPasswordTooLong)
	}
	return err
}
