package echoapi

import (
	"net/http"
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/auth"
	"github.com/trezcool/darasa/core/user"
)

type userApi struct {
	svc        *user.Service
	tokens     *auth.TokenService
	logger     core.Logger
	validate   *validator.Validate
	translator ut.Translator
}

func registerUserAPI(g *echo.Group, authed, loginLimiter echo.MiddlewareFunc, deps ServerDeps) {
	api := userApi{
		svc:        deps.UserSvc,
		tokens:     deps.Tokens,
		logger:     deps.Logger,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	// un-authed endpoints
	g.POST("/register", api.register)
	var loginMw []echo.MiddlewareFunc
	if loginLimiter != nil {
		loginMw = append(loginMw, loginLimiter)
	}
	g.POST("/login", api.login, loginMw...)

	// authed endpoints
	g.GET("/me", api.me, authed)
	g.GET("/students/users", api.queryStudents, authed, roleMiddleware(user.RoleTeacher))
}

// Handlers

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	api.logger.Info("user registered", usr)

	return ctx.JSON(http.StatusCreated, newUserResponse(usr))
}

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		if errors.Cause(err) == user.ErrInvalidCredentials {
			return errInvalidCredentials
		}
		return errors.Wrap(err, "authenticating")
	}
	token, err := api.tokens.Issue(usr.Username, usr.Role)
	if err != nil {
		return errors.Wrap(err, "issuing token")
	}

	ctx.Response().Header().Set("Cache-Control", "no-store")
	return ctx.JSON(http.StatusOK, LoginResponse{AccessToken: token, TokenType: tokenType})
}

func (api *userApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newUserResponse(usr))
}

func (api *userApi) queryStudents(ctx echo.Context) error {
	students, err := api.svc.QueryStudents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}

	resp := make([]UserResponse, 0, len(students))
	for _, usr := range students {
		resp = append(resp, newUserResponse(usr))
	}
	ctx.Response().Header().Set("X-Total-Count", strconv.Itoa(len(resp)))
	return ctx.JSON(http.StatusOK, resp)
}
