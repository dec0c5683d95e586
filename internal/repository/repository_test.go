package repository_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/internal/repository"
	"github.com/Astemirdum/lending-service/migrations"
	"github.com/Astemirdum/lending-service/pkg/kafka"
	"github.com/Astemirdum/lending-service/pkg/postgres"
)

// Runs against a real database: LENDING_TEST_DB=1 POSTGRES_HOST=... go test ./internal/repository/
func newRepo(t *testing.T) repository.Repository {
	t.Helper()
	if os.Getenv("LENDING_TEST_DB") == "" {
		t.Skip("LENDING_TEST_DB is not set")
	}
	var cfg postgres.DB
	require.NoError(t, envconfig.Process("", &cfg))
	db, err := postgres.NewPostgresDB(context.Background(), &cfg, migrations.MigrationFiles)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	repo, err := repository.NewRepository(db, zap.NewNop())
	require.NoError(t, err)
	return repo
}

func createUser(t *testing.T, repo repository.Repository) model.User {
	t.Helper()
	id := uuid.NewString()
	user, err := repo.CreateUser(context.Background(), model.User{
		ID:       id,
		Name:     "Reader",
		Email:    id + "@example.com",
		Password: "hash",
	})
	require.NoError(t, err)
	return user
}

func createBook(t *testing.T, repo repository.Repository) model.Book {
	t.Helper()
	book, err := repo.CreateBook(context.Background(), model.Book{
		ID:     uuid.NewString(),
		Title:  "Dune",
		Author: "Frank Herbert",
		ISBN:   uuid.NewString()[:32],
		Status: model.BookAvailable,
	})
	require.NoError(t, err)
	return book
}

func TestRepository_Users(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	user := createUser(t, repo)

	_, err := repo.CreateUser(ctx, model.User{ID: uuid.NewString(), Name: "Dup", Email: user.Email, Password: "hash"})
	require.ErrorIs(t, err, errs.ErrUserExists)

	got, err := repo.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	_, err = repo.GetUserByID(ctx, uuid.NewString())
	require.ErrorIs(t, err, errs.ErrUserNotFound)
}

func TestRepository_ConcurrentBorrow(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	book := createBook(t, repo)

	const readers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		won      int
		rejected int
	)
	for i := 0; i < readers; i++ {
		user := createUser(t, repo)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.BorrowBook(ctx, user.ID, book.ID, time.Now().UTC())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won++
			case errors.Is(err, errs.ErrBookNotAvailable):
				rejected++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, won)
	require.Equal(t, readers-1, rejected)

	got, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, model.BookBorrowed, got.Status)
}

func TestRepository_BorrowReturnDelete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	user := createUser(t, repo)
	other := createUser(t, repo)
	book := createBook(t, repo)
	now := time.Now().UTC().Truncate(time.Microsecond)

	borrow, err := repo.BorrowBook(ctx, user.ID, book.ID, now)
	require.NoError(t, err)
	require.Equal(t, model.BorrowActive, borrow.Status)
	require.True(t, borrow.DueDate.Equal(now.Add(model.LoanPeriod)))

	require.ErrorIs(t, repo.DeleteBook(ctx, book.ID), errs.ErrBookBorrowed)

	_, err = repo.ReturnBook(ctx, other.ID, book.ID, now)
	require.ErrorIs(t, err, errs.ErrNoActiveBorrow)

	returned, err := repo.ReturnBook(ctx, user.ID, book.ID, now)
	require.NoError(t, err)
	require.Equal(t, model.BorrowReturned, returned.Status)
	require.NotNil(t, returned.ReturnDate)

	got, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, model.BookAvailable, got.Status)

	_, err = repo.ReturnBook(ctx, user.ID, book.ID, now)
	require.ErrorIs(t, err, errs.ErrNoActiveBorrow)

	borrows, err := repo.ListUserBorrows(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, borrows, 1)
	require.Equal(t, book.ID, borrows[0].Book.ID)

	require.NoError(t, repo.DeleteBook(ctx, book.ID))
	_, err = repo.GetBook(ctx, book.ID)
	require.ErrorIs(t, err, errs.ErrBookNotFound)
	require.ErrorIs(t, repo.DeleteBook(ctx, book.ID), errs.ErrBookNotFound)
}

func TestRepository_UpdateBook(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	book := createBook(t, repo)
	taken := createBook(t, repo)

	title := "Dune Messiah"
	got, err := repo.UpdateBook(ctx, book.ID, model.UpdateBookRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, title, got.Title)
	require.Equal(t, book.Author, got.Author)

	_, err = repo.UpdateBook(ctx, book.ID, model.UpdateBookRequest{ISBN: &taken.ISBN})
	require.ErrorIs(t, err, errs.ErrISBNExists)

	_, err = repo.UpdateBook(ctx, uuid.NewString(), model.UpdateBookRequest{Title: &title})
	require.ErrorIs(t, err, errs.ErrBookNotFound)
}

func TestRepository_Stats(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	user := createUser(t, repo)
	book := createBook(t, repo)
	start := time.Now().UTC().Truncate(time.Microsecond)

	borrow, err := repo.BorrowBook(ctx, user.ID, book.ID, start)
	require.NoError(t, err)
	for i, eventType := range []kafka.EventType{kafka.EventBorrow, kafka.EventReturn, kafka.EventBorrow} {
		require.NoError(t, repo.SaveEvent(ctx, kafka.LendingEvent{
			Timestamp: start.Add(time.Duration(i) * time.Minute),
			UserID:    user.ID,
			BookID:    book.ID,
			BorrowID:  borrow.ID,
			EventType: eventType,
		}))
	}

	stats, err := repo.GetStats(ctx)
	require.NoError(t, err)
	var mine *model.Stats
	for i := range stats.Data {
		if stats.Data[i].UserID == user.ID {
			mine = &stats.Data[i]
		}
	}
	require.NotNil(t, mine)
	require.Equal(t, 2, mine.Borrows)
	require.Equal(t, 1, mine.Returns)
	require.True(t, mine.LastActivity.Equal(start.Add(2*time.Minute)), mine.LastActivity)
}
