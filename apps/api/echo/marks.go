package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/auth"
	"github.com/trezcool/darasa/core/marks"
	"github.com/trezcool/darasa/core/user"
)

type marksApi struct {
	svc      *marks.Service
	validate *validator.Validate
}

func registerMarksAPI(g *echo.Group, authed echo.MiddlewareFunc, deps ServerDeps) {
	api := marksApi{
		svc:      deps.MarksSvc,
		validate: deps.Validate,
	}

	studentOnly := roleMiddleware(user.RoleStudent)
	teacherOnly := roleMiddleware(user.RoleTeacher)

	g.GET("/students/me", api.retrieveProfile, authed, studentOnly)
	g.GET("/students/marks", api.retrieveMarks, authed, studentOnly)
	g.POST("/marks", api.assign, authed, teacherOnly)
	g.GET("/leaderboard", api.leaderboard, authed)
}

// Handlers

func (api *marksApi) retrieveProfile(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	profile, err := api.svc.GetProfile(ctx.Request().Context(), usr)
	if err != nil {
		return marksErr(err, "getting profile")
	}
	return ctx.JSON(http.StatusOK, ProfileResponse{Username: usr.Username, RollNo: profile.RollNo})
}

func (api *marksApi) retrieveMarks(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	mrks, err := api.svc.GetMarks(ctx.Request().Context(), usr)
	if err != nil {
		return marksErr(err, "getting marks")
	}
	return ctx.JSON(http.StatusOK, newMarksResponse(mrks))
}

func (api *marksApi) assign(ctx echo.Context) error {
	var data marks.Assignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Assignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	profile, mrks, err := api.svc.Assign(ctx.Request().Context(), data)
	if err != nil {
		return marksErr(err, "assigning marks")
	}
	return ctx.JSON(http.StatusOK, AssignmentResponse{
		UserID:        profile.UserID,
		RollNo:        profile.RollNo,
		MarksResponse: newMarksResponse(mrks),
	})
}

func (api *marksApi) leaderboard(ctx echo.Context) error {
	board, err := api.svc.Leaderboard(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing leaderboard")
	}
	return ctx.JSON(http.StatusOK, board)
}

// marksErr maps marks.Service errors to HTTP errors.
func marksErr(err error, msg string) error {
	switch errors.Cause(err) {
	case marks.ErrProfileNotFound:
		return errProfileNotFound
	case marks.ErrMarksNotFound:
		return errMarksNotFound
	case marks.ErrStudentNotFound:
		return errStudentNotFound
	case auth.ErrForbidden:
		return errHttpForbidden
	}
	return errors.Wrap(err, msg)
}
