package marks

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/auth"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrProfileNotFound = errors.New("student profile not found")
	ErrMarksNotFound   = errors.New("marks not assigned yet")
	ErrStudentNotFound = errors.New("student not found")
	ErrNotAStudent     = errors.New("user is not a student")
	ErrRollNoExists    = errors.New("a student with this roll number already exists")
	ErrProfileExists   = errors.New("this user already has a student profile")
	ErrMarksExist      = errors.New("marks already exist for this student")
)

type (
	Repository interface {
		// GetProfile returns ErrProfileNotFound when no profile matches the filter.
		GetProfile(ctx context.Context, filter ProfileFilter, exec ...core.DBExecutor) (Profile, error)
		// CreateProfile returns ErrProfileExists or ErrRollNoExists on unique violations.
		CreateProfile(ctx context.Context, p Profile, exec ...core.DBExecutor) (Profile, error)
		// UpdateProfile returns ErrRollNoExists when the roll number is taken.
		UpdateProfile(ctx context.Context, p Profile, exec ...core.DBExecutor) (Profile, error)
		// GetMarks returns ErrMarksNotFound when the profile has no marks.
		GetMarks(ctx context.Context, profileID int, exec ...core.DBExecutor) (Marks, error)
		// CreateMarks returns ErrMarksExist when the profile already has marks.
		CreateMarks(ctx context.Context, m Marks, exec ...core.DBExecutor) (Marks, error)
		UpdateMarks(ctx context.Context, m Marks, exec ...core.DBExecutor) (Marks, error)
		// QueryStandings returns every student having both a profile and marks.
		QueryStandings(ctx context.Context, exec ...core.DBExecutor) ([]Standing, error)
	}

	Service struct {
		tx    core.Transactor
		repo  Repository
		users user.Repository
	}
)

func NewService(tx core.Transactor, repo Repository, users user.Repository) *Service {
	return &Service{tx: tx, repo: repo, users: users}
}

// Assign sets the roll number and marks of a student, creating the profile and
// marks records when missing. All the writes happen in a single transaction.
func (svc *Service) Assign(ctx context.Context, a Assignment) (Profile, Marks, error) {
	var (
		profile Profile
		mrks    Marks
	)

	err := svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		usr, err := svc.users.GetUser(ctx, user.GetFilter{ID: a.UserID, ForUpdate: true}, exec)
		if err != nil {
			if errors.Cause(err) == user.ErrNotFound {
				return ErrStudentNotFound
			}
			return errors.Wrap(err, "finding user by ID")
		}
		if !usr.IsStudent() {
			return core.NewFieldError("user_id", ErrNotAStudent)
		}

		if profile, err = svc.saveProfile(ctx, usr, a.RollNo, exec); err != nil {
			return err
		}
		mrks, err = svc.saveMarks(ctx, profile, a, exec)
		return err
	})
	if err != nil {
		return Profile{}, Marks{}, err
	}
	return profile, mrks, nil
}

func (svc *Service) saveProfile(ctx context.Context, usr user.User, rollNo string, exec core.DBExecutor) (Profile, error) {
	owner, err := svc.repo.GetProfile(ctx, ProfileFilter{RollNo: rollNo}, exec)
	switch {
	case err == nil && owner.UserID != usr.ID:
		return Profile{}, core.NewFieldError("roll_no", ErrRollNoExists)
	case err != nil && errors.Cause(err) != ErrProfileNotFound:
		return Profile{}, errors.Wrap(err, "finding profile by roll number")
	}

	now := core.Now()
	profile, err := svc.repo.GetProfile(ctx, ProfileFilter{UserID: usr.ID}, exec)
	if err != nil {
		if errors.Cause(err) != ErrProfileNotFound {
			return Profile{}, errors.Wrap(err, "finding profile by user")
		}
		profile, err = svc.repo.CreateProfile(ctx, Profile{
			UserID:    usr.ID,
			RollNo:    rollNo,
			CreatedAt: now,
			UpdatedAt: now,
		}, exec)
		return profile, wrapProfileErr(err, "creating profile")
	}

	if profile.RollNo == rollNo {
		return profile, nil
	}
	profile.RollNo = rollNo
	profile.UpdatedAt = now
	profile, err = svc.repo.UpdateProfile(ctx, profile, exec)
	return profile, wrapProfileErr(err, "updating profile")
}

func (svc *Service) saveMarks(ctx context.Context, profile Profile, a Assignment, exec core.DBExecutor) (Marks, error) {
	now := core.Now()
	mrks, err := svc.repo.GetMarks(ctx, profile.ID, exec)
	if err != nil {
		if errors.Cause(err) != ErrMarksNotFound {
			return Marks{}, errors.Wrap(err, "finding marks")
		}
		mrks = Marks{ProfileID: profile.ID, CreatedAt: now, UpdatedAt: now}
		a.apply(&mrks)
		mrks, err = svc.repo.CreateMarks(ctx, mrks, exec)
		return mrks, errors.Wrap(err, "creating marks")
	}

	a.apply(&mrks)
	mrks.UpdatedAt = now
	mrks, err = svc.repo.UpdateMarks(ctx, mrks, exec)
	return mrks, errors.Wrap(err, "updating marks")
}

// wrapProfileErr turns a lost roll number race into a field error.
func wrapProfileErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Cause(err) == ErrRollNoExists {
		return core.NewFieldError("roll_no", ErrRollNoExists)
	}
	return errors.Wrap(err, msg)
}

// GetProfile returns the profile owned by principal.
func (svc *Service) GetProfile(ctx context.Context, principal user.User) (Profile, error) {
	profile, err := svc.repo.GetProfile(ctx, ProfileFilter{UserID: principal.ID})
	if err != nil {
		return Profile{}, err
	}
	// always passes while the lookup is keyed by principal.ID
	if err = auth.AuthorizeOwner(principal, profile.UserID); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// GetMarks returns the marks of the profile owned by principal.
func (svc *Service) GetMarks(ctx context.Context, principal user.User) (Marks, error) {
	profile, err := svc.GetProfile(ctx, principal)
	if err != nil {
		if errors.Cause(err) == ErrProfileNotFound {
			return Marks{}, ErrMarksNotFound
		}
		return Marks{}, err
	}
	return svc.repo.GetMarks(ctx, profile.ID)
}

// Leaderboard ranks every student with marks. It is recomputed on each call.
func (svc *Service) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	standings, err := svc.repo.QueryStandings(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying standings")
	}
	return Rank(standings), nil
}
