package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	defer repo.db.lock(exec)()

	for _, u := range repo.db.user {
		if u.Username == usr.Username {
			return user.User{}, user.ErrUsernameExists
		}
	}
	usr.ID = repo.db.nextPK("user")
	repo.db.user[usr.ID] = usr
	return usr, nil
}

func (repo *userRepository) GetUser(_ context.Context, filter user.GetFilter, exec ...core.DBExecutor) (user.User, error) {
	defer repo.db.rlock(exec)()

	if filter.ID == 0 && filter.Username == "" {
		return user.User{}, user.ErrNotFound
	}
	for _, usr := range repo.db.user {
		if (filter.ID == 0 || usr.ID == filter.ID) && (filter.Username == "" || usr.Username == filter.Username) {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) QueryUsers(_ context.Context, filter user.QueryFilter, exec ...core.DBExecutor) ([]user.User, error) {
	defer repo.db.rlock(exec)()

	users := make([]user.User, 0, len(repo.db.user))
	for _, usr := range repo.db.user {
		if filter.Role == "" || usr.Role == filter.Role {
			users = append(users, usr)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	defer repo.db.lock(exec)()

	// only the password can change
	origUsr, ok := repo.db.user[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	origUsr.PasswordHash = usr.PasswordHash
	origUsr.UpdatedAt = usr.UpdatedAt
	repo.db.user[usr.ID] = origUsr
	return origUsr, nil
}
