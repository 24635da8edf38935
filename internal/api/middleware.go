package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/technohack/backend/internal/access"
	"github.com/technohack/backend/internal/models"
)

const userContextKey = "technohack.user"

// RequireUser verifies the bearer session token, resolves the caller to a
// local user and stamps the access level for this call. Every successful
// resolution counts as a login.
func (s *Service) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}

		ctx := c.Request().Context()

		ident, err := s.verifier.VerifySession(ctx, token)
		if err != nil {
			return jsonError(c, err)
		}

		user, err := s.resolver.Resolve(ctx, ident)
		if err != nil {
			return jsonError(c, err)
		}

		user, err = s.authority.Resolve(ctx, user)
		if err != nil {
			return jsonError(c, err)
		}

		if user.IsBanned || !user.IsActive {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "account disabled"})
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// RequireAdmin is the per-call authorization check for the admin area; it
// never mutates persisted state.
func (s *Service) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := access.RequireElevated(currentUser(c)); err != nil {
			return jsonError(c, err)
		}
		return next(c)
	}
}

func (s *Service) RequireSuperadmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := access.RequireSuperadmin(currentUser(c)); err != nil {
			return jsonError(c, err)
		}
		return next(c)
	}
}

func currentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return ""
}
