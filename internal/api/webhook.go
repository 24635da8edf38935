package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/technohack/backend/internal/identity"
)

type webhookRequest struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// HandleIdentityWebhook ingests user.created/user.updated events from the
// identity provider. Creation goes through the resolver so the subject-id
// uniqueness backstop applies; a concurrent first login and webhook
// delivery still produce one user row.
func (s *Service) HandleIdentityWebhook() echo.HandlerFunc {
	return func(c echo.Context) error {
		secret := c.Request().Header.Get("X-Webhook-Secret")
		if s.config.IdentityWebhookSecret == "" ||
			subtle.ConstantTimeCompare([]byte(secret), []byte(s.config.IdentityWebhookSecret)) != 1 {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "bad webhook secret"})
		}

		var req webhookRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
		}

		ident, err := identity.Normalize(req.Data)
		if err != nil {
			logrus.Warnf("rejecting identity webhook: %v", err)
			return jsonError(c, err)
		}

		ctx := c.Request().Context()

		user, err := s.resolver.Resolve(ctx, ident)
		if err != nil {
			return jsonError(c, err)
		}

		if req.Type == "user.updated" {
			if err := s.storage.UpdateUserProfile(ctx, user.ID, map[string]any{
				"first_name": ident.FirstName,
				"last_name":  ident.LastName,
				"avatar_url": ident.AvatarURL,
			}); err != nil {
				return jsonError(c, err)
			}
		}

		logrus.Infof("identity webhook %s processed for %v", req.Type, ident)
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}
}
