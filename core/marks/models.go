package marks

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

const (
	SubjectCount = 5
	MaxScore     = 100
)

// Profile is the student record carrying the roll number. A user has at most one.
type Profile struct {
	ID        int       `json:"-"`
	UserID    int       `json:"user_id"`
	RollNo    string    `json:"roll_no"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Marks holds the five subject scores of a profile.
type Marks struct {
	ID        int       `json:"-"`
	ProfileID int       `json:"-"`
	S1        int       `json:"s1"`
	S2        int       `json:"s2"`
	S3        int       `json:"s3"`
	S4        int       `json:"s4"`
	S5        int       `json:"s5"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (m Marks) Scores() [SubjectCount]int {
	return [SubjectCount]int{m.S1, m.S2, m.S3, m.S4, m.S5}
}

// Total is the sum of the five scores.
func (m Marks) Total() int {
	var total int
	for _, s := range m.Scores() {
		total += s
	}
	return total
}

// Standing is a student that has both a profile and marks.
type Standing struct {
	UserID   int
	Username string
	RollNo   string
	Marks    Marks
}

type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	RollNo  string `json:"roll_no"`
	Student string `json:"student"`
	Total   int    `json:"total"`
}

// Assignment sets the roll number and scores of a student.
// Scores are pointers so that a missing score is rejected rather than read as 0.
type Assignment struct {
	UserID int    `json:"user_id" validate:"required,min=1"`
	RollNo string `json:"roll_no" validate:"notblank,max=50"`
	S1     *int   `json:"s1" validate:"required,min=0,max=100"`
	S2     *int   `json:"s2" validate:"required,min=0,max=100"`
	S3     *int   `json:"s3" validate:"required,min=0,max=100"`
	S4     *int   `json:"s4" validate:"required,min=0,max=100"`
	S5     *int   `json:"s5" validate:"required,min=0,max=100"`
}

func (a *Assignment) Validate(validate *validator.Validate) error {
	a.RollNo = core.CleanString(a.RollNo)
	return validate.Struct(a)
}

func (a Assignment) apply(m *Marks) {
	m.S1, m.S2, m.S3, m.S4, m.S5 = *a.S1, *a.S2, *a.S3, *a.S4, *a.S5
}

type ProfileFilter struct {
	UserID int
	RollNo string
}
