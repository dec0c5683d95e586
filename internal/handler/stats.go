package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetStats godoc
// @Summary per-user lending activity
// @Tags stats
// @Produce json
// @Security Bearer
// @Success 200 {object} model.StatsInfo
// @Router /stats [get]
func (h *Handler) GetStats(c echo.Context) error {
	stat, err := h.svc.GetStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stat)
}
