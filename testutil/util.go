// Package testutil holds fixtures shared by the test suites.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/marks"
	"github.com/trezcool/darasa/core/user"
	logsvc "github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/storage/database"
)

// DatabaseURLEnv names the env var holding the postgres URL used by the storage tests.
const DatabaseURLEnv = "TEST_DATABASE_URL"

// Config returns a debug-free configuration suitable for tests.
func Config() *core.Config {
	return &core.Config{
		AppName:   "Darasa",
		Env:       "TEST",
		Build:     "test",
		TestMode:  true,
		SecretKey: "test-secret-key",
		Server: core.ServerConfig{
			ShutdownTimeout: time.Second,
		},
	}
}

// NewLogger returns a logger that reports nothing and writes nowhere.
func NewLogger() core.Logger {
	logger := logsvc.NewRollbarLogger(zerolog.Nop(), Config())
	logger.Enable(false)
	return logger
}

func NewValidator() *validator.Validate {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate
}

func CreateUser(t *testing.T, repo user.Repository, uname, pwd string, role user.Role) user.User {
	t.Helper()

	now := core.Now()
	usr := user.User{
		Username:  uname,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// Scores returns an assignment for usr; missing scores default to 0.
func Scores(usr user.User, rollNo string, scores ...int) marks.Assignment {
	vals := make([]int, marks.SubjectCount)
	copy(vals, scores)
	return marks.Assignment{
		UserID: usr.ID,
		RollNo: rollNo,
		S1:     &vals[0],
		S2:     &vals[1],
		S3:     &vals[2],
		S4:     &vals[3],
		S5:     &vals[4],
	}
}

func AssignMarks(t *testing.T, svc *marks.Service, usr user.User, rollNo string, scores ...int) (marks.Profile, marks.Marks) {
	t.Helper()

	p, m, err := svc.Assign(context.Background(), Scores(usr, rollNo, scores...))
	if err != nil {
		t.Fatalf("AssignMarks() failed: %v", err)
	}
	return p, m
}

// OpenDB connects to the migrated test database, skipping the test when none is configured.
func OpenDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv(DatabaseURLEnv)
	if dsn == "" {
		t.Skipf("%s not set", DatabaseURLEnv)
	}
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(context.Background(), db.DB); err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	ResetDB(t, db)
	return db
}

// ResetDB empties every table.
func ResetDB(t *testing.T, db *sqlx.DB) {
	t.Helper()

	if _, err := db.Exec(`TRUNCATE TABLE marks, student_profile, "user" RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("ResetDB() failed: %v", err)
	}
}
