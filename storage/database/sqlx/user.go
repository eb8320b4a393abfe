package sqlxrepos

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

const userColumns = `id, username, password_hash, role, created_at, updated_at`

type userRow struct {
	ID           int       `db:"id"`
	Username     string    `db:"username"`
	PasswordHash []byte    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r userRow) toUser() user.User {
	return user.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Role:         user.Role(r.Role),
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo userRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.db
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	q := `INSERT INTO "user" (username, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := sqlx.GetContext(
		ctx, repo.getExec(exec), &usr.ID, q,
		usr.Username, usr.PasswordHash, string(usr.Role), usr.CreatedAt.UTC(), usr.UpdatedAt.UTC(),
	)
	if err != nil {
		if _, ok := uniqueConstraint(err); ok {
			return user.User{}, user.ErrUsernameExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter, exec ...core.DBExecutor) (user.User, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.ID != 0 {
		args = append(args, filter.ID)
		where = append(where, "id = $1")
	}
	if filter.Username != "" {
		args = append(args, filter.Username)
		where = append(where, "username = $"+strconv.Itoa(len(args)))
	}
	if len(where) == 0 {
		return user.User{}, user.ErrNotFound
	}

	q := `SELECT ` + userColumns + ` FROM "user" WHERE ` + strings.Join(where, " AND ")
	if filter.ForUpdate {
		q += " FOR UPDATE"
	}

	var row userRow
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &row, q, args...); err != nil {
		return user.User{}, trapNoRowsErr(errors.Wrap(err, "selecting user"), user.ErrNotFound)
	}
	return row.toUser(), nil
}

func (repo userRepository) QueryUsers(ctx context.Context, filter user.QueryFilter, exec ...core.DBExecutor) ([]user.User, error) {
	q := `SELECT ` + userColumns + ` FROM "user"`
	var args []interface{}
	if filter.Role != "" {
		q += " WHERE role = $1"
		args = append(args, string(filter.Role))
	}
	q += " ORDER BY id ASC"

	var rows []userRow
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.toUser())
	}
	return users, nil
}

// UpdateUser saves the password hash; usernames and roles are immutable.
func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	q := `UPDATE "user" SET password_hash = $2, updated_at = $3 WHERE id = $1 RETURNING ` + userColumns

	var row userRow
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &row, q, usr.ID, usr.PasswordHash, usr.UpdatedAt.UTC()); err != nil {
		return user.User{}, trapNoRowsErr(errors.Wrap(err, "updating user"), user.ErrNotFound)
	}
	return row.toUser(), nil
}
