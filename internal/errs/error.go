package errs

import (
	"net/http"
)

// AppError is an expected failure carrying the HTTP status reported to the caller.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

var (
	ErrUnauthorized       = New(http.StatusUnauthorized, "Not authorized to access this route")
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid credentials")
	ErrUserExists         = New(http.StatusBadRequest, "User already exists")
	ErrUserNotFound       = New(http.StatusNotFound, "User not found")

	ErrBookNotFound     = New(http.StatusNotFound, "Book not found")
	ErrBookNotAvailable = New(http.StatusBadRequest, "Book is not available")
	ErrBookBorrowed     = New(http.StatusBadRequest, "Book is currently borrowed")
	ErrISBNExists       = New(http.StatusBadRequest, "Book with this ISBN already exists")
	ErrNoActiveBorrow   = New(http.StatusNotFound, "No active borrow found for this book")
)

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}
