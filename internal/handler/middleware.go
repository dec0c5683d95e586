package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/pkg/auth"
)

const bearer = "Bearer "

// Protect admits requests carrying a valid bearer token of an existing user.
// Every rejection is the same 401 so callers cannot tell the reasons apart.
func (h *Handler) Protect(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authorization := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(authorization, bearer) {
			return errs.ErrUnauthorized
		}
		token := strings.TrimSpace(strings.TrimPrefix(authorization, bearer))
		if token == "" {
			return errs.ErrUnauthorized
		}

		req := c.Request()
		id, err := h.svc.Authenticate(req.Context(), token)
		if err != nil {
			return err
		}
		c.SetRequest(req.WithContext(auth.SetAuthContext(req.Context(), id)))

		return next(c)
	}
}

func identity(c echo.Context) (auth.Identity, error) {
	id, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return auth.Identity{}, errs.ErrUnauthorized
	}
	return id, nil
}
