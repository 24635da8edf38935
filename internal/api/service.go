package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/technohack/backend/internal/access"
	"github.com/technohack/backend/internal/config"
	"github.com/technohack/backend/internal/identity"
	"github.com/technohack/backend/internal/registration"
	"github.com/technohack/backend/internal/storage"
)

type Service struct {
	config        *config.Config
	storage       *storage.Storage
	verifier      identity.Verifier
	resolver      *identity.Resolver
	authority     *access.Authority
	registrations *registration.Service
}

func NewService(
	cfg *config.Config,
	store *storage.Storage,
	verifier identity.Verifier,
	resolver *identity.Resolver,
	authority *access.Authority,
	registrations *registration.Service,
) *Service {
	return &Service{
		config:        cfg,
		storage:       store,
		verifier:      verifier,
		resolver:      resolver,
		authority:     authority,
		registrations: registrations,
	}
}

func (s *Service) Register(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.POST("/webhooks/identity", s.HandleIdentityWebhook())

	e.GET("/api/events", s.HandleListEvents())
	e.GET("/api/events/:slug", s.HandleGetEvent())

	authed := e.Group("/api", s.RequireUser)
	authed.GET("/me", s.HandleGetMe())
	authed.PATCH("/me", s.HandleUpdateMe())
	authed.GET("/registrations", s.HandleMyRegistrations())
	authed.POST("/events/:slug/register", s.HandleRegister())
	authed.POST("/registrations/:id/cancel", s.HandleCancel())

	admin := e.Group("/api/admin", s.RequireUser, s.RequireAdmin)
	admin.GET("/stats", s.HandleStats())
	admin.GET("/registrations", s.HandleAdminRegistrations())
	admin.GET("/registrations/export", s.HandleExportRegistrations())
	admin.PATCH("/registrations/:id/payment", s.HandleSetPayment())
	admin.GET("/users", s.HandleAdminUsers())
	admin.GET("/users/export", s.HandleExportUsers())
	admin.GET("/settings/payment", s.HandleGetPaymentSettings())
	admin.PUT("/settings/payment", s.HandleSavePaymentSettings())
	admin.POST("/events", s.HandleCreateEvent())
	admin.PATCH("/events/:id", s.HandleUpdateEvent())

	super := e.Group("/api/admin/users/:id", s.RequireUser, s.RequireSuperadmin)
	super.PATCH("/role", s.HandleSetUserRole())
	super.PATCH("/flags", s.HandleSetUserFlags())
}

// jsonError maps the domain error taxonomy onto HTTP responses.
func jsonError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, identity.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})

	case errors.Is(err, access.ErrNotAuthorized), errors.Is(err, registration.ErrNotOwner):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})

	case errors.Is(err, storage.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	case errors.Is(err, storage.ErrRegistrationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "registration not found"})
	case errors.Is(err, storage.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})

	case errors.Is(err, storage.ErrAlreadyRegistered):
		return c.JSON(http.StatusConflict, echo.Map{"error": "you are already registered for this event"})

	case errors.Is(err, registration.ErrInvalidPaymentStatus),
		errors.Is(err, registration.ErrInvalidPaymentMode),
		errors.Is(err, identity.ErrMissingEmail),
		errors.Is(err, identity.ErrMissingSubject):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})

	default:
		logrus.Errorf("request failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
