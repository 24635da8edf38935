package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/technohack/backend/internal/models"
	"github.com/technohack/backend/internal/registration"
)

func (s *Service) HandleGetMe() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, currentUser(c))
	}
}

type updateProfileRequest struct {
	Phone   *string `json:"phone"`
	College *string `json:"college"`
	Course  *string `json:"course"`
	Year    *string `json:"year"`
	Address *string `json:"address"`
}

func (s *Service) HandleUpdateMe() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req updateProfileRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
		}

		fields := map[string]any{}
		if req.Phone != nil {
			fields["phone"] = *req.Phone
		}
		if req.College != nil {
			fields["college"] = *req.College
		}
		if req.Course != nil {
			fields["course"] = *req.Course
		}
		if req.Year != nil {
			fields["year"] = *req.Year
		}
		if req.Address != nil {
			fields["address"] = *req.Address
		}
		if len(fields) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
		}

		user := currentUser(c)
		if err := s.storage.UpdateUserProfile(c.Request().Context(), user.ID, fields); err != nil {
			return jsonError(c, err)
		}

		updated, err := s.storage.GetUser(c.Request().Context(), user.ID)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, updated)
	}
}

func (s *Service) HandleMyRegistrations() echo.HandlerFunc {
	return func(c echo.Context) error {
		regs, err := s.storage.ListUserRegistrations(c.Request().Context(), currentUser(c).ID)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"registrations": regs})
	}
}

type registerRequest struct {
	TeamName    string              `json:"team_name"`
	TeamMembers []models.TeamMember `json:"team_members"`
}

func (s *Service) HandleRegister() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req registerRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
		}

		reg, err := s.registrations.Admit(
			c.Request().Context(),
			currentUser(c),
			c.Param("slug"),
			registration.TeamInfo{Name: req.TeamName, Members: req.TeamMembers},
		)
		if err != nil {
			return jsonError(c, err)
		}

		return c.JSON(http.StatusCreated, reg)
	}
}

func (s *Service) HandleCancel() echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := s.registrations.Cancel(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "cancelled"})
	}
}
