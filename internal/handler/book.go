package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
)

const returnedMessage = "Book returned successfully"

// bookID rejects ids that cannot exist before they reach the store.
func bookID(c echo.Context) (string, error) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", errs.ErrBookNotFound
	}
	return id, nil
}

// ListBooks godoc
// @Summary list all books
// @Tags books
// @Produce json
// @Success 200 {array} model.Book
// @Router /books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	books, err := h.svc.ListBooks(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

// GetBook godoc
// @Summary book with its borrow history
// @Tags books
// @Produce json
// @Param id path string true "book id"
// @Success 200 {object} model.BookWithBorrows
// @Failure 404 {object} errs.ErrorResponse
// @Router /books/{id} [get]
func (h *Handler) GetBook(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return err
	}
	book, err := h.svc.GetBook(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, book)
}

// CreateBook godoc
// @Summary add a book to the catalog
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body model.CreateBookRequest true "book"
// @Success 201 {object} model.Book
// @Failure 400 {object} errs.ErrorResponse
// @Failure 401 {object} errs.ErrorResponse
// @Router /books [post]
func (h *Handler) CreateBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return errs.BadRequest(err.Error())
	}
	book, err := h.svc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, book)
}

// UpdateBook godoc
// @Summary update book fields
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "book id"
// @Param request body model.UpdateBookRequest true "fields to change"
// @Success 200 {object} model.Book
// @Failure 400 {object} errs.ErrorResponse
// @Failure 404 {object} errs.ErrorResponse
// @Router /books/{id} [put]
func (h *Handler) UpdateBook(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return err
	}
	var req model.UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return errs.BadRequest(err.Error())
	}
	book, err := h.svc.UpdateBook(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, book)
}

// DeleteBook godoc
// @Summary delete a book
// @Tags books
// @Security Bearer
// @Param id path string true "book id"
// @Success 204
// @Failure 400 {object} errs.ErrorResponse
// @Failure 404 {object} errs.ErrorResponse
// @Router /books/{id} [delete]
func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteBook(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Borrow godoc
// @Summary borrow a book for 14 days
// @Tags books
// @Produce json
// @Security Bearer
// @Param id path string true "book id"
// @Success 201 {object} model.Borrow
// @Failure 400 {object} errs.ErrorResponse
// @Failure 404 {object} errs.ErrorResponse
// @Router /books/{id}/borrow [post]
func (h *Handler) Borrow(c echo.Context) error {
	user, err := identity(c)
	if err != nil {
		return err
	}
	id, err := bookID(c)
	if err != nil {
		return err
	}
	borrow, err := h.svc.Borrow(c.Request().Context(), user.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, borrow)
}

// Return godoc
// @Summary return a borrowed book
// @Tags books
// @Produce json
// @Security Bearer
// @Param id path string true "book id"
// @Success 200 {object} model.MessageResponse
// @Failure 404 {object} errs.ErrorResponse
// @Router /books/{id}/return [post]
func (h *Handler) Return(c echo.Context) error {
	user, err := identity(c)
	if err != nil {
		return err
	}
	id, err := bookID(c)
	if err != nil {
		return errs.ErrNoActiveBorrow
	}
	if _, err := h.svc.Return(c.Request().Context(), user.ID, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, model.MessageResponse{Message: returnedMessage})
}
