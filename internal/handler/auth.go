package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
)

// Register godoc
// @Summary register a user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "user"
// @Success 201 {object} model.AuthResponse
// @Failure 400 {object} errs.ErrorResponse
// @Router /auth/register [post]
func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return errs.BadRequest(err.Error())
	}
	resp, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "credentials"
// @Success 200 {object} model.AuthResponse
// @Failure 401 {object} errs.ErrorResponse
// @Router /auth/login [post]
func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return errs.BadRequest(err.Error())
	}
	resp, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Profile godoc
// @Summary current user with borrow history
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} model.Profile
// @Failure 401 {object} errs.ErrorResponse
// @Router /auth/profile [get]
func (h *Handler) Profile(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	profile, err := h.svc.Profile(c.Request().Context(), id.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}
