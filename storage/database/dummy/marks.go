package dummydb

import (
	"context"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/marks"
)

type marksRepository struct {
	db *DB
}

var _ marks.Repository = (*marksRepository)(nil) // interface compliance check

func NewMarksRepository(db *DB) *marksRepository {
	return &marksRepository{db: db}
}

func (repo *marksRepository) rollNoTaken(p marks.Profile) bool {
	for _, other := range repo.db.profile {
		if other.RollNo == p.RollNo && other.ID != p.ID {
			return true
		}
	}
	return false
}

func (repo *marksRepository) GetProfile(_ context.Context, filter marks.ProfileFilter, exec ...core.DBExecutor) (marks.Profile, error) {
	defer repo.db.rlock(exec)()

	if filter.UserID == 0 && filter.RollNo == "" {
		return marks.Profile{}, marks.ErrProfileNotFound
	}
	for _, p := range repo.db.profile {
		if (filter.UserID == 0 || p.UserID == filter.UserID) && (filter.RollNo == "" || p.RollNo == filter.RollNo) {
			return p, nil
		}
	}
	return marks.Profile{}, marks.ErrProfileNotFound
}

func (repo *marksRepository) CreateProfile(_ context.Context, p marks.Profile, exec ...core.DBExecutor) (marks.Profile, error) {
	defer repo.db.lock(exec)()

	for _, other := range repo.db.profile {
		if other.UserID == p.UserID {
			return marks.Profile{}, marks.ErrProfileExists
		}
	}
	if repo.rollNoTaken(p) {
		return marks.Profile{}, marks.ErrRollNoExists
	}
	p.ID = repo.db.nextPK("profile")
	repo.db.profile[p.ID] = p
	return p, nil
}

func (repo *marksRepository) UpdateProfile(_ context.Context, p marks.Profile, exec ...core.DBExecutor) (marks.Profile, error) {
	defer repo.db.lock(exec)()

	orig, ok := repo.db.profile[p.ID]
	if !ok {
		return marks.Profile{}, marks.ErrProfileNotFound
	}
	if repo.rollNoTaken(p) {
		return marks.Profile{}, marks.ErrRollNoExists
	}
	orig.RollNo = p.RollNo
	orig.UpdatedAt = p.UpdatedAt
	repo.db.profile[p.ID] = orig
	return orig, nil
}

func (repo *marksRepository) GetMarks(_ context.Context, profileID int, exec ...core.DBExecutor) (marks.Marks, error) {
	defer repo.db.rlock(exec)()

	for _, m := range repo.db.marks {
		if m.ProfileID == profileID {
			return m, nil
		}
	}
	return marks.Marks{}, marks.ErrMarksNotFound
}

func (repo *marksRepository) CreateMarks(_ context.Context, m marks.Marks, exec ...core.DBExecutor) (marks.Marks, error) {
	defer repo.db.lock(exec)()

	for _, other := range repo.db.marks {
		if other.ProfileID == m.ProfileID {
			return marks.Marks{}, marks.ErrMarksExist
		}
	}
	m.ID = repo.db.nextPK("marks")
	repo.db.marks[m.ID] = m
	return m, nil
}

func (repo *marksRepository) UpdateMarks(_ context.Context, m marks.Marks, exec ...core.DBExecutor) (marks.Marks, error) {
	defer repo.db.lock(exec)()

	orig, ok := repo.db.marks[m.ID]
	if !ok {
		return marks.Marks{}, marks.ErrMarksNotFound
	}
	orig.S1, orig.S2, orig.S3, orig.S4, orig.S5 = m.S1, m.S2, m.S3, m.S4, m.S5
	orig.UpdatedAt = m.UpdatedAt
	repo.db.marks[m.ID] = orig
	return orig, nil
}

func (repo *marksRepository) QueryStandings(_ context.Context, exec ...core.DBExecutor) ([]marks.Standing, error) {
	defer repo.db.rlock(exec)()

	standings := make([]marks.Standing, 0, len(repo.db.marks))
	for _, m := range repo.db.marks {
		p, ok := repo.db.profile[m.ProfileID]
		if !ok {
			continue
		}
		usr, ok := repo.db.user[p.UserID]
		if !ok {
			continue
		}
		standings = append(standings, marks.Standing{
			UserID:   usr.ID,
			Username: usr.Username,
			RollNo:   p.RollNo,
			Marks:    m,
		})
	}
	return standings, nil
}
