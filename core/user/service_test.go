package user_test

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
	dummydb "github.com/trezcool/darasa/storage/database/dummy"
	"github.com/trezcool/darasa/testutil"
)

func setup() (*user.Service, user.Repository) {
	repo := dummydb.NewUserRepository(dummydb.Open())
	return user.NewService(repo), repo
}

func TestService_Register(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	usr, err := svc.Register(ctx, user.NewUser{Username: "alice", Password: "pw1", Role: user.RoleStudent})
	require.NoError(t, err)
	assert.NotZero(t, usr.ID)
	assert.Equal(t, "alice", usr.Username)
	assert.Equal(t, user.RoleStudent, usr.Role)
	assert.NotEqual(t, []byte("pw1"), usr.PasswordHash)
	assert.True(t, usr.CheckPassword("pw1"))

	// duplicate username: rejected, nothing created
	_, err = svc.Register(ctx, user.NewUser{Username: "alice", Password: "other", Role: user.RoleTeacher})
	require.Error(t, err)
	vErr, ok := err.(*core.ValidationError)
	require.True(t, ok, "want *core.ValidationError, got %T", err)
	assert.Equal(t, map[string]string{"username": user.ErrUsernameExists.Error()}, vErr.Map())

	users, err := repo.QueryUsers(ctx, user.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestService_passwordTooLong(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()
	long := strings.Repeat("密", 30) // 30 runes, 90 bytes
	want := map[string]string{"password": user.ErrPasswordTooLong.Error()}

	_, err := svc.Register(ctx, user.NewUser{Username: "alice", Password: long, Role: user.RoleStudent})
	vErr, ok := err.(*core.ValidationError)
	require.True(t, ok, "want *core.ValidationError, got %T", err)
	assert.Equal(t, want, vErr.Map())

	testutil.CreateUser(t, repo, "bob", "pw2", user.RoleTeacher)
	_, err = svc.SetPassword(ctx, "bob", long)
	vErr, ok = err.(*core.ValidationError)
	require.True(t, ok, "want *core.ValidationError, got %T", err)
	assert.Equal(t, want, vErr.Map())
}

func TestService_Authenticate(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()
	alice := testutil.CreateUser(t, repo, "alice", "pw1", user.RoleStudent)

	tests := []struct {
		name    string
		uname   string
		pwd     string
		wantErr error
	}{
		{name: "valid", uname: "alice", pwd: "pw1"},
		{name: "username is case-insensitive", uname: "  Alice ", pwd: "pw1"},
		{name: "wrong password", uname: "alice", pwd: "wrong", wantErr: user.ErrInvalidCredentials},
		{name: "password is case-sensitive", uname: "alice", pwd: "PW1", wantErr: user.ErrInvalidCredentials},
		{name: "unknown user", uname: "ghost", pwd: "pw1", wantErr: user.ErrInvalidCredentials},
		{name: "empty username", uname: "", pwd: "pw1", wantErr: user.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := svc.Authenticate(ctx, tt.uname, tt.pwd)
			assert.Equal(t, tt.wantErr, err)
			if tt.wantErr == nil {
				assert.Equal(t, alice.ID, usr.ID)
			} else {
				assert.Equal(t, user.User{}, usr)
			}
		})
	}
}

func TestService_QueryStudents(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	s1 := testutil.CreateUser(t, repo, "alice", "", user.RoleStudent)
	testutil.CreateUser(t, repo, "bob", "", user.RoleTeacher)
	s2 := testutil.CreateUser(t, repo, "carol", "", user.RoleStudent)

	students, err := svc.QueryStudents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []user.User{s1, s2}, students)
}

func TestService_SetPassword(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()
	testutil.CreateUser(t, repo, "alice", "pw1", user.RoleStudent)

	_, err := svc.SetPassword(ctx, "ghost", "new")
	assert.Equal(t, user.ErrNotFound, err)

	_, err = svc.SetPassword(ctx, "alice", "new")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "alice", "pw1")
	assert.Equal(t, user.ErrInvalidCredentials, err)
	_, err = svc.Authenticate(ctx, "alice", "new")
	assert.NoError(t, err)
}

func TestVerifyPassword(t *testing.T) {
	var usr user.User
	require.NoError(t, usr.SetPassword("s3cret"))

	assert.True(t, user.VerifyPassword("s3cret", usr.PasswordHash))
	assert.False(t, user.VerifyPassword("s3cret ", usr.PasswordHash))
	assert.False(t, user.VerifyPassword("", usr.PasswordHash))
	assert.False(t, user.VerifyPassword("s3cret", []byte("s3cret")))
	assert.False(t, user.VerifyPassword("s3cret", nil))
}

func TestNewUser_Validate(t *testing.T) {
	validate := testutil.NewValidator()

	tests := []struct {
		name       string
		data       user.NewUser
		wantFields []string
	}{
		{name: "valid", data: user.NewUser{Username: " Alice ", Password: "pw1", Role: "Student"}},
		{name: "blank username", data: user.NewUser{Username: "   ", Password: "pw1", Role: user.RoleStudent}, wantFields: []string{"username"}},
		{name: "bad username", data: user.NewUser{Username: "al ice", Password: "pw1", Role: user.RoleStudent}, wantFields: []string{"username"}},
		{name: "no password", data: user.NewUser{Username: "alice", Role: user.RoleStudent}, wantFields: []string{"password"}},
		{name: "72-byte password", data: user.NewUser{Username: "alice", Password: strings.Repeat("a", 72), Role: user.RoleStudent}},
		{
			name: "password over 72 bytes", data: user.NewUser{Username: "alice", Password: strings.Repeat("密", 30), Role: user.RoleStudent},
			wantFields: []string{"password"},
		},
		{name: "unknown role", data: user.NewUser{Username: "alice", Password: "pw1", Role: "admin"}, wantFields: []string{"role"}},
		{name: "no role", data: user.NewUser{Username: "alice", Password: "pw1"}, wantFields: []string{"role"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := tt.data
			err := nu.Validate(validate)
			if tt.wantFields == nil {
				require.NoError(t, err)
				assert.Equal(t, "alice", nu.Username)
				assert.Equal(t, user.RoleStudent, nu.Role)
				return
			}
			vErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok, "want validator.ValidationErrors, got %T", err)
			var fields []string
			for _, fe := range vErrs {
				fields = append(fields, fe.Field())
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestParseRole(t *testing.T) {
	role, err := user.ParseRole("teacher")
	require.NoError(t, err)
	assert.Equal(t, user.RoleTeacher, role)

	_, err = user.ParseRole("Teacher")
	assert.Equal(t, user.ErrInvalidRole, err)
	_, err = user.ParseRole("")
	assert.Equal(t, user.ErrInvalidRole, err)
}
