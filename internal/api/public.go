package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Service) HandleListEvents() echo.HandlerFunc {
	return func(c echo.Context) error {
		events, err := s.storage.ListEvents(c.Request().Context(), true)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"events": events})
	}
}

func (s *Service) HandleGetEvent() echo.HandlerFunc {
	return func(c echo.Context) error {
		event, err := s.storage.GetEventBySlug(c.Request().Context(), c.Param("slug"))
		if err != nil {
			return jsonError(c, err)
		}
		if !event.Published {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusOK, event)
	}
}
