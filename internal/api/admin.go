package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/technohack/backend/internal/export"
	"github.com/technohack/backend/internal/models"
	"github.com/technohack/backend/internal/registration"
	"github.com/technohack/backend/internal/storage"
)

func (s *Service) HandleStats() echo.HandlerFunc {
	return func(c echo.Context) error {
		stats, err := s.storage.GetStats(c.Request().Context())
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, stats)
	}
}

func registrationFilter(c echo.Context) storage.RegistrationFilter {
	return storage.RegistrationFilter{
		Query:         c.QueryParam("q"),
		PaymentStatus: models.PaymentStatus(c.QueryParam("payment_status")),
		EventID:       c.QueryParam("event_id"),
	}
}

func (s *Service) HandleAdminRegistrations() echo.HandlerFunc {
	return func(c echo.Context) error {
		rows, err := s.storage.ListRegistrationDetails(c.Request().Context(), registrationFilter(c))
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"registrations": rows})
	}
}

func (s *Service) HandleExportRegistrations() echo.HandlerFunc {
	return func(c echo.Context) error {
		rows, err := s.storage.ListRegistrationDetails(c.Request().Context(), registrationFilter(c))
		if err != nil {
			return jsonError(c, err)
		}

		c.Response().Header().Set(echo.HeaderContentType, "text/csv")
		c.Response().Header().Set(
			echo.HeaderContentDisposition,
			fmt.Sprintf("attachment; filename=registrations-%s.csv", time.Now().Format("2006-01-02")),
		)
		c.Response().WriteHeader(http.StatusOK)

		return export.Registrations(c.Response(), rows)
	}
}

type paymentRequest struct {
	Status         models.PaymentStatus `json:"status"`
	Mode           models.PaymentMode   `json:"mode"`
	AmountPaid     *int                 `json:"amount_paid"`
	TransactionRef string               `json:"transaction_ref"`
	CashCode       string               `json:"cash_code"`
}

func (s *Service) HandleSetPayment() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req paymentRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
		}

		reg, err := s.registrations.SetPaymentStatus(c.Request().Context(), c.Param("id"), registration.PaymentUpdate{
			Status:         req.Status,
			Mode:           req.Mode,
			AmountPaid:     req.AmountPaid,
			TransactionRef: req.TransactionRef,
			CashCode:       req.CashCode,
		})
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, reg)
	}
}

func (s *Service) HandleAdminUsers() echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := s.storage.ListUsers(c.Request().Context(), c.QueryParam("q"))
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"users": users})
	}
}

func (s *Service) HandleExportUsers() echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := s.storage.ListUsers(c.Request().Context(), c.QueryParam("q"))
		if err != nil {
			return jsonError(c, err)
		}

		c.Response().Header().Set(echo.HeaderContentType, "text/csv")
		c.Response().Header().Set(
			echo.HeaderContentDisposition,
			fmt.Sprintf("attachment; filename=users-%s.csv", time.Now().Format("2006-01-02")),
		)
		c.Response().WriteHeader(http.StatusOK)

		return export.Users(c.Response(), users)
	}
}

func (s *Service) HandleGetPaymentSettings() echo.HandlerFunc {
	return func(c echo.Context) error {
		settings, err := s.storage.GetPaymentSettings(c.Request().Context())
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, settings)
	}
}

type paymentSettingsRequest struct {
	UPIEnabled  bool   `json:"upi_enabled"`
	UPIID       string `json:"upi_id"`
	PayeeName   string `json:"payee_name"`
	CashEnabled bool   `json:"cash_enabled"`
}

func (s *Service) HandleSavePaymentSettings() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req paymentSettingsRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
		}
		if req.UPIEnabled && req.UPIID == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "upi_id is required when UPI is enabled"})
		}

		settings := &models.PaymentSettings{
			UPIEnabled:  req.UPIEnabled,
			UPIID:       req.UPIID,
			PayeeName:   req.PayeeName,
			CashEnabled: req.CashEnabled,
		}
		if err := s.storage.SavePaymentSettings(c.Request().Context(), settings); err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, settings)
	}
}

type eventRequest struct {
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	Venue       string    `json:"venue"`
	TeamSize    int       `json:"team_size"`
	Price       int       `json:"price"`
	Published   bool      `json:"published"`
}

func (s *Service) HandleCreateEvent() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req eventRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
		}
		if req.Title == "" || req.Slug == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and slug are required"})
		}
		if req.TeamSize < 1 {
			req.TeamSize = 1
		}

		event := &models.Event{
			Title:       req.Title,
			Slug:        req.Slug,
			Category:    req.Category,
			Description: req.Description,
			StartsAt:    req.StartsAt,
			Venue:       req.Venue,
			TeamSize:    req.TeamSize,
			Price:       req.Price,
			Published:   req.Published,
		}
		if err := s.storage.CreateEvent(c.Request().Context(), event); err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusCreated, event)
	}
}

type eventPatchRequest struct {
	Title       *string    `json:"title"`
	Category    *string    `json:"category"`
	Description *string    `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	Venue       *string    `json:"venue"`
	TeamSize    *int       `json:"team_size"`
	Price       *int       `json:"price"`
	Published   *bool      `json:"published"`
}

func (s *Service) HandleUpdateEvent() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req eventPatchRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
		}

		fields := map[string]any{}
		if req.Title != nil {
			fields["title"] = *req.Title
		}
		if req.Category != nil {
			fields["category"] = *req.Category
		}
		if req.Description != nil {
			fields["description"] = *req.Description
		}
		if req.StartsAt != nil {
			fields["starts_at"] = *req.StartsAt
		}
		if req.Venue != nil {
			fields["venue"] = *req.Venue
		}
		if req.TeamSize != nil && *req.TeamSize >= 1 {
			fields["team_size"] = *req.TeamSize
		}
		if req.Price != nil {
			fields["price"] = *req.Price
		}
		if req.Published != nil {
			fields["published"] = *req.Published
		}
		if len(fields) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
		}

		if err := s.storage.UpdateEvent(c.Request().Context(), c.Param("id"), fields); err != nil {
			return jsonError(c, err)
		}

		event, err := s.storage.GetEvent(c.Request().Context(), c.Param("id"))
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, event)
	}
}

type roleRequest struct {
	Role models.Role `json:"role"`
}

func (s *Service) HandleSetUserRole() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req roleRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
		}
		if req.Role != models.RoleUser && req.Role != models.RoleAdmin && req.Role != models.RoleSuperadmin {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
		}

		ctx := c.Request().Context()

		target, err := s.storage.GetUser(ctx, c.Param("id"))
		if err != nil {
			return jsonError(c, err)
		}
		if err := s.storage.SetUserRole(ctx, target.ID, req.Role); err != nil {
			return jsonError(c, err)
		}
		if target.Role != req.Role {
			if err := s.storage.AddAuditEvent(ctx, &models.AuditEvent{
				UserID:   target.ID,
				Kind:     models.AuditKindPromotion,
				FromRole: target.Role,
				ToRole:   req.Role,
			}); err != nil {
				return jsonError(c, err)
			}
		}

		updated, err := s.storage.GetUser(ctx, target.ID)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, updated)
	}
}

type flagsRequest struct {
	IsActive bool `json:"is_active"`
	IsBanned bool `json:"is_banned"`
}

func (s *Service) HandleSetUserFlags() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req flagsRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
		}

		ctx := c.Request().Context()
		if err := s.storage.SetUserFlags(ctx, c.Param("id"), req.IsActive, req.IsBanned); err != nil {
			return jsonError(c, err)
		}

		updated, err := s.storage.GetUser(ctx, c.Param("id"))
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, updated)
	}
}
