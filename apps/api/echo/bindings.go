package echoapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/marks"
	"github.com/trezcool/darasa/core/user"
)

const tokenType = "bearer"

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}

	UserResponse struct {
		ID       int       `json:"id"`
		Username string    `json:"username"`
		Role     user.Role `json:"role"`
	}

	ProfileResponse struct {
		Username string `json:"username"`
		RollNo   string `json:"roll_no"`
	}

	MarksResponse struct {
		S1    int `json:"s1"`
		S2    int `json:"s2"`
		S3    int `json:"s3"`
		S4    int `json:"s4"`
		S5    int `json:"s5"`
		Total int `json:"total"`
	}

	AssignmentResponse struct {
		UserID int    `json:"user_id"`
		RollNo string `json:"roll_no"`
		MarksResponse
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return validate.Struct(lr)
}

func newUserResponse(usr user.User) UserResponse {
	return UserResponse{ID: usr.ID, Username: usr.Username, Role: usr.Role}
}

func newMarksResponse(m marks.Marks) MarksResponse {
	return MarksResponse{S1: m.S1, S2: m.S2, S3: m.S3, S4: m.S4, S5: m.S5, Total: m.Total()}
}
