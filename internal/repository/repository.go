package repository

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/pkg/kafka"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, id string) (model.User, error)
	ListUserBorrows(ctx context.Context, userID string) ([]model.BorrowWithBook, error)

	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id string) (model.Book, error)
	ListBookBorrows(ctx context.Context, bookID string) ([]model.Borrow, error)
	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id string) error

	BorrowBook(ctx context.Context, userID, bookID string, now time.Time) (model.Borrow, error)
	ReturnBook(ctx context.Context, userID, bookID string, now time.Time) (model.Borrow, error)

	SaveEvent(ctx context.Context, event kafka.LendingEvent) error
	GetStats(ctx context.Context) (model.StatsInfo, error)
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	usersTableName   = `users`
	booksTableName   = `books`
	borrowsTableName = `borrows`
	eventsTableName  = `lending_events`
)

var (
	qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	userColumns   = []string{"id", "name", "email", "password", "created_at", "updated_at"}
	bookColumns   = []string{"id", "title", "author", "isbn", "cover_image", "description", "status", "created_at", "updated_at"}
	borrowColumns = []string{"id", "user_id", "book_id", "borrow_date", "due_date", "return_date", "status"}
)

const (
	constraintUserEmail    = "users_email_key"
	constraintBookISBN     = "books_isbn_key"
	constraintActiveBorrow = "borrows_active_book_uidx"
)

// uniqueViolation returns the violated constraint name, if err is a unique violation.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func returning(columns []string) string {
	return "returning " + strings.Join(columns, ", ")
}
