package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/auth"
	"github.com/trezcool/darasa/core/user"
)

const contextUserKey = "user"

// authMiddleware resolves the calling user from the Authorization header and stores it in the context.
// Every authentication failure gets the same response; the reason is only logged.
func authMiddleware(resolver *auth.Resolver, logger core.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			usr, err := resolver.Resolve(req.Context(), req.Header.Get(echo.HeaderAuthorization))
			if err != nil {
				if auth.IsAuthFailure(err) {
					logger.Debug("authentication failed", err, map[string]interface{}{
						"path":      req.URL.Path,
						"remote_ip": ctx.RealIP(),
					})
					return errUnauthorized
				}
				return errors.Wrap(err, "resolving user")
			}
			ctx.Set(contextUserKey, usr)
			return next(ctx)
		}
	}
}

// roleMiddleware only lets users having exactly the given role through. Use after authMiddleware.
func roleMiddleware(role user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			if err = auth.Authorize(usr, role); err != nil {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

func contextUser(ctx echo.Context) (user.User, bool) {
	usr, ok := ctx.Get(contextUserKey).(user.User)
	return usr, ok
}

func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := contextUser(ctx); ok {
		return usr, nil
	}
	return user.User{}, errUnauthorized
}
