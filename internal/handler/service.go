package handler

import (
	"context"

	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/internal/service"
	"github.com/Astemirdum/lending-service/pkg/auth"
	"github.com/Astemirdum/lending-service/pkg/kafka"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LendingService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error)
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
	Profile(ctx context.Context, userID string) (model.Profile, error)

	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id string) (model.BookWithBorrows, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id string) error
	Borrow(ctx context.Context, userID, bookID string) (model.Borrow, error)
	Return(ctx context.Context, userID, bookID string) (model.Borrow, error)

	GetStats(ctx context.Context) (model.StatsInfo, error)
	SaveEvent(ctx context.Context, event kafka.LendingEvent) error
}

var _ LendingService = (*service.Service)(nil)
