package app

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
)

const seedPassword = "password123"

type seeder interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	Borrow(ctx context.Context, userID, bookID string) (model.Borrow, error)
}

var (
	seedUsers = []model.RegisterRequest{
		{Name: "John Doe", Email: "john@example.com", Password: seedPassword},
		{Name: "Jane Smith", Email: "jane@example.com", Password: seedPassword},
	}
	seedBooks = []model.CreateBookRequest{
		{
			Title:       "The Great Gatsby",
			Author:      "F. Scott Fitzgerald",
			ISBN:        "9780743273565",
			CoverImage:  "/books/great-gatsby.jpg",
			Description: "A story of decadence and excess.",
		},
		{
			Title:       "1984",
			Author:      "George Orwell",
			ISBN:        "9780451524935",
			CoverImage:  "/books/1984.jpg",
			Description: "A dystopian social science fiction novel.",
		},
		{
			Title:       "Pride and Prejudice",
			Author:      "Jane Austen",
			ISBN:        "9780141439518",
			CoverImage:  "/books/pride-prejudice.jpg",
			Description: "A romantic novel of manners.",
		},
	}
)

// Seed fills an empty catalog with sample users and books, and lends the first book to the first user.
// It does nothing when any book exists.
func Seed(ctx context.Context, svc seeder, log *zap.Logger) error {
	books, err := svc.ListBooks(ctx)
	if err != nil {
		return err
	}
	if len(books) > 0 {
		log.Info("seed skipped, catalog is not empty", zap.Int("books", len(books)))
		return nil
	}

	userIDs := make([]string, 0, len(seedUsers))
	for _, req := range seedUsers {
		user, err := svc.Register(ctx, req)
		if errors.Is(err, errs.ErrUserExists) {
			user, err = svc.Login(ctx, model.LoginRequest{Email: req.Email, Password: req.Password})
		}
		if err != nil {
			return errors.Wrapf(err, "user %s", req.Email)
		}
		userIDs = append(userIDs, user.ID)
	}

	bookIDs := make([]string, 0, len(seedBooks))
	for _, req := range seedBooks {
		book, err := svc.CreateBook(ctx, req)
		if err != nil {
			return errors.Wrapf(err, "book %s", req.ISBN)
		}
		bookIDs = append(bookIDs, book.ID)
	}

	if _, err := svc.Borrow(ctx, userIDs[0], bookIDs[0]); err != nil {
		return errors.Wrap(err, "borrow")
	}
	log.Info("seed data created",
		zap.Int("users", len(userIDs)),
		zap.Int("books", len(bookIDs)))
	return nil
}
