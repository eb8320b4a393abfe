package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/marks"
)

const (
	profileColumns = `id, user_id, roll_no, created_at, updated_at`
	marksColumns   = `id, profile_id, s1, s2, s3, s4, s5, created_at, updated_at`

	profileUserIDKey = "student_profile_user_id_key"
	profileRollNoKey = "student_profile_roll_no_key"
)

type (
	profileRow struct {
		ID        int       `db:"id"`
		UserID    int       `db:"user_id"`
		RollNo    string    `db:"roll_no"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}

	marksRow struct {
		ID        int       `db:"id"`
		ProfileID int       `db:"profile_id"`
		S1        int       `db:"s1"`
		S2        int       `db:"s2"`
		S3        int       `db:"s3"`
		S4        int       `db:"s4"`
		S5        int       `db:"s5"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}

	standingRow struct {
		UserID   int    `db:"user_id"`
		Username string `db:"username"`
		RollNo   string `db:"roll_no"`
		S1       int    `db:"s1"`
		S2       int    `db:"s2"`
		S3       int    `db:"s3"`
		S4       int    `db:"s4"`
		S5       int    `db:"s5"`
	}
)

func (r profileRow) toProfile() marks.Profile {
	return marks.Profile{
		ID:        r.ID,
		UserID:    r.UserID,
		RollNo:    r.RollNo,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func (r marksRow) toMarks() marks.Marks {
	return marks.Marks{
		ID:        r.ID,
		ProfileID: r.ProfileID,
		S1:        r.S1,
		S2:        r.S2,
		S3:        r.S3,
		S4:        r.S4,
		S5:        r.S5,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type marksRepository struct {
	db *sqlx.DB
}

var _ marks.Repository = (*marksRepository)(nil) // interface compliance check

func NewMarksRepository(db *sqlx.DB) *marksRepository {
	return &marksRepository{db: db}
}

func (repo marksRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.db
}

func profileErr(err error, msg string) error {
	if constraint, ok := uniqueConstraint(err); ok {
		switch constraint {
		case profileRollNoKey:
			return marks.ErrRollNoExists
		case profileUserIDKey:
			return marks.ErrProfileExists
		}
	}
	return trapNoRowsErr(errors.Wrap(err, msg), marks.ErrProfileNotFound)
}

func (repo marksRepository) GetProfile(ctx context.Context, filter marks.ProfileFilter, exec ...core.DBExecutor) (marks.Profile, error) {
	var (
		q   = `SELECT ` + profileColumns + ` FROM student_profile WHERE `
		arg interface{}
	)
	switch {
	case filter.UserID != 0:
		q, arg = q+"user_id = $1", filter.UserID
	case filter.RollNo != "":
		q, arg = q+"roll_no = $1", filter.RollNo
	default:
		return marks.Profile{}, marks.ErrProfileNotFound
	}

	var row profileRow
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &row, q, arg); err != nil {
		return marks.Profile{}, profileErr(err, "selecting profile")
	}
	return row.toProfile(), nil
}

func (repo marksRepository) CreateProfile(ctx context.Context, p marks.Profile, exec ...core.DBExecutor) (marks.Profile, error) {
	q := `INSERT INTO student_profile (user_id, roll_no, created_at, updated_at)
		VALUES ($1, $2, $3, $4) RETURNING id`
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &p.ID, q, p.UserID, p.RollNo, p.CreatedAt.UTC(), p.UpdatedAt.UTC()); err != nil {
		return marks.Profile{}, profileErr(err, "inserting profile")
	}
	return p, nil
}

func (repo marksRepository) UpdateProfile(ctx context.Context, p marks.Profile, exec ...core.DBExecutor) (marks.Profile, error) {
	q := `UPDATE student_profile SET roll_no = $2, updated_at = $3 WHERE id = $1 RETURNING ` + profileColumns

	var row profileRow
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &row, q, p.ID, p.RollNo, p.UpdatedAt.UTC()); err != nil {
		return marks.Profile{}, profileErr(err, "updating profile")
	}
	return row.toProfile(), nil
}

func (repo marksRepository) GetMarks(ctx context.Context, profileID int, exec ...core.DBExecutor) (marks.Marks, error) {
	q := `SELECT ` + marksColumns + ` FROM marks WHERE profile_id = $1`

	var row marksRow
	if err := sqlx.GetContext(ctx, repo.getExec(exec), &row, q, profileID); err != nil {
		return marks.Marks{}, trapNoRowsErr(errors.Wrap(err, "selecting marks"), marks.ErrMarksNotFound)
	}
	return row.toMarks(), nil
}

func (repo marksRepository) CreateMarks(ctx context.Context, m marks.Marks, exec ...core.DBExecutor) (marks.Marks, error) {
	q := `INSERT INTO marks (profile_id, s1, s2, s3, s4, s5, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := sqlx.GetContext(
		ctx, repo.getExec(exec), &m.ID, q,
		m.ProfileID, m.S1, m.S2, m.S3, m.S4, m.S5, m.CreatedAt.UTC(), m.UpdatedAt.UTC(),
	)
	if err != nil {
		if _, ok := uniqueConstraint(err); ok {
			return marks.Marks{}, marks.ErrMarksExist
		}
		return marks.Marks{}, errors.Wrap(err, "inserting marks")
	}
	return m, nil
}

func (repo marksRepository) UpdateMarks(ctx context.Context, m marks.Marks, exec ...core.DBExecutor) (marks.Marks, error) {
	q := `UPDATE marks SET s1 = $2, s2 = $3, s3 = $4, s4 = $5, s5 = $6, updated_at = $7
		WHERE id = $1 RETURNING ` + marksColumns

	var row marksRow
	err := sqlx.GetContext(ctx, repo.getExec(exec), &row, q, m.ID, m.S1, m.S2, m.S3, m.S4, m.S5, m.UpdatedAt.UTC())
	if err != nil {
		return marks.Marks{}, trapNoRowsErr(errors.Wrap(err, "updating marks"), marks.ErrMarksNotFound)
	}
	return row.toMarks(), nil
}

func (repo marksRepository) QueryStandings(ctx context.Context, exec ...core.DBExecutor) ([]marks.Standing, error) {
	q := `SELECT u.id AS user_id, u.username, p.roll_no, m.s1, m.s2, m.s3, m.s4, m.s5
		FROM student_profile p
		INNER JOIN "user" u ON u.id = p.user_id
		INNER JOIN marks m ON m.profile_id = p.id`

	var rows []standingRow
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting standings")
	}
	standings := make([]marks.Standing, 0, len(rows))
	for _, r := range rows {
		standings = append(standings, marks.Standing{
			UserID:   r.UserID,
			Username: r.Username,
			RollNo:   r.RollNo,
			Marks:    marks.Marks{S1: r.S1, S2: r.S2, S3: r.S3, S4: r.S4, S5: r.S5},
		})
	}
	return standings, nil
}
