package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/internal/errs"
)

const (
	statusError       = "error"
	internalErrorText = "Something went wrong"
)

// errorHandler is the only place where errors become HTTP responses.
func (h *Handler) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code, resp := h.errorResponse(err)

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, resp)
	}
	if err != nil {
		h.log.Error("write error response", zap.Error(err))
	}
}

func (h *Handler) errorResponse(err error) (int, errs.ErrorResponse) {
	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		return appErr.Code, errs.ErrorResponse{Status: statusError, Message: appErr.Message}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code < http.StatusInternalServerError {
		return httpErr.Code, errs.ErrorResponse{Status: statusError, Message: fmt.Sprint(httpErr.Message)}
	}

	h.log.Error("unexpected error", zap.Error(err))
	if h.development {
		return http.StatusInternalServerError, errs.ErrorResponse{
			Status:  statusError,
			Message: err.Error(),
			Stack:   fmt.Sprintf("%+v", err),
		}
	}
	return http.StatusInternalServerError, errs.ErrorResponse{Status: statusError, Message: internalErrorText}
}
