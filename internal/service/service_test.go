package service_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/internal/service"
	"github.com/Astemirdum/lending-service/pkg/auth"
	"github.com/Astemirdum/lending-service/pkg/kafka"

	repo_mocks "github.com/Astemirdum/lending-service/internal/repository/mocks"
	service_mocks "github.com/Astemirdum/lending-service/internal/service/mocks"
)

const (
	userID = "0b6e3c6a-1a52-4d67-9e2c-2b6f2f6b1a11"
	bookID = "f7cdc58f-2caf-4b15-9727-f89dcc629b27"
)

type deps struct {
	repo      *repo_mocks.MockRepository
	tokens    *service_mocks.MockTokenManager
	publisher *service_mocks.MockEventPublisher
}

func newService(t *testing.T) (*service.Service, deps) {
	t.Helper()
	c := gomock.NewController(t)
	d := deps{
		repo:      repo_mocks.NewMockRepository(c),
		tokens:    service_mocks.NewMockTokenManager(c),
		publisher: service_mocks.NewMockEventPublisher(c),
	}
	return service.NewService(d.repo, d.tokens, d.publisher, zap.NewNop()), d
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestService_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	req := model.RegisterRequest{Name: "John", Email: "john@example.com", Password: "secret1"}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().GetUserByEmail(ctx, req.Email).Return(model.User{}, errs.ErrUserNotFound)
		d.repo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, u model.User) (model.User, error) {
			require.NotEmpty(t, u.ID)
			require.NotEqual(t, req.Password, u.Password)
			require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)))
			return u, nil
		})
		d.tokens.EXPECT().Issue(gomock.Any()).DoAndReturn(func(id auth.Identity) (string, error) {
			require.Equal(t, req.Email, id.Email)
			return "jwt", nil
		})

		resp, err := svc.Register(ctx, req)
		require.NoError(t, err)
		require.Equal(t, "John", resp.Name)
		require.Equal(t, req.Email, resp.Email)
		require.Equal(t, "jwt", resp.Token)
		require.NotEmpty(t, resp.ID)
	})

	t.Run("err. user exists", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().GetUserByEmail(ctx, req.Email).Return(model.User{ID: userID}, nil)

		_, err := svc.Register(ctx, req)
		require.ErrorIs(t, err, errs.ErrUserExists)
	})

	t.Run("err. concurrent duplicate", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().GetUserByEmail(ctx, req.Email).Return(model.User{}, errs.ErrUserNotFound)
		d.repo.EXPECT().CreateUser(ctx, gomock.Any()).Return(model.User{}, errs.ErrUserExists)

		_, err := svc.Register(ctx, req)
		require.ErrorIs(t, err, errs.ErrUserExists)
	})

	t.Run("err. password over 72 bytes", func(t *testing.T) {
		t.Parallel()
		svc, _ := newService(t)
		long := req
		long.Password = strings.Repeat("é", 40)

		_, err := svc.Register(ctx, long)
		var appErr *errs.AppError
		require.ErrorAs(t, err, &appErr)
		require.Equal(t, http.StatusBadRequest, appErr.Code)
	})
}

func TestService_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	user := model.User{ID: userID, Name: "John", Email: "john@example.com", Password: hashed(t, "secret1")}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().GetUserByEmail(ctx, user.Email).Return(user, nil)
		d.tokens.EXPECT().Issue(auth.Identity{ID: userID, Email: user.Email}).Return("jwt", nil)

		resp, err := svc.Login(ctx, model.LoginRequest{Email: user.Email, Password: "secret1"})
		require.NoError(t, err)
		require.Equal(t, model.AuthResponse{ID: userID, Name: "John", Email: user.Email, Token: "jwt"}, resp)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().GetUserByEmail(ctx, "ghost@example.com").Return(model.User{}, errs.ErrUserNotFound)
		d.repo.EXPECT().GetUserByEmail(ctx, user.Email).Return(user, nil)

		_, unknownErr := svc.Login(ctx, model.LoginRequest{Email: "ghost@example.com", Password: "secret1"})
		_, wrongErr := svc.Login(ctx, model.LoginRequest{Email: user.Email, Password: "wrong"})
		require.ErrorIs(t, unknownErr, errs.ErrInvalidCredentials)
		require.ErrorIs(t, wrongErr, errs.ErrInvalidCredentials)
		require.Equal(t, unknownErr.Error(), wrongErr.Error())
	})
}

func TestService_Authenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var tests = []struct {
		name     string
		behavior func(d deps)
		want     auth.Identity
		wantErr  error
	}{
		{
			name: "ok",
			behavior: func(d deps) {
				d.tokens.EXPECT().Parse("tok").Return(auth.Identity{ID: userID}, nil)
				d.repo.EXPECT().GetUserByID(ctx, userID).Return(model.User{ID: userID, Email: "john@example.com"}, nil)
			},
			want: auth.Identity{ID: userID, Email: "john@example.com"},
		},
		{
			name: "bad token",
			behavior: func(d deps) {
				d.tokens.EXPECT().Parse("tok").Return(auth.Identity{}, auth.ErrInvalidToken)
			},
			wantErr: errs.ErrUnauthorized,
		},
		{
			name: "deleted user",
			behavior: func(d deps) {
				d.tokens.EXPECT().Parse("tok").Return(auth.Identity{ID: userID}, nil)
				d.repo.EXPECT().GetUserByID(ctx, userID).Return(model.User{}, errs.ErrUserNotFound)
			},
			wantErr: errs.ErrUnauthorized,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, d := newService(t)
			tt.behavior(d)

			got, err := svc.Authenticate(ctx, "tok")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestService_Profile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok. no borrows", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().GetUserByID(gomock.Any(), userID).Return(model.User{ID: userID, Name: "John", Password: "hash"}, nil)
		d.repo.EXPECT().ListUserBorrows(gomock.Any(), userID).Return(nil, nil)

		profile, err := svc.Profile(ctx, userID)
		require.NoError(t, err)
		require.Equal(t, "John", profile.Name)
		require.NotNil(t, profile.Borrows)
		require.Empty(t, profile.Borrows)
	})

	t.Run("err. user vanished", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().GetUserByID(gomock.Any(), userID).Return(model.User{}, errs.ErrUserNotFound)
		d.repo.EXPECT().ListUserBorrows(gomock.Any(), userID).Return(nil, nil).AnyTimes()

		_, err := svc.Profile(ctx, userID)
		require.ErrorIs(t, err, errs.ErrUserNotFound)
	})
}

func TestService_Borrow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok. publishes event", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		borrow := model.Borrow{ID: "b1", UserID: userID, BookID: bookID, Status: model.BorrowActive}
		d.repo.EXPECT().BorrowBook(ctx, userID, bookID, gomock.Any()).DoAndReturn(
			func(_ context.Context, _, _ string, now time.Time) (model.Borrow, error) {
				require.Equal(t, time.UTC, now.Location())
				return borrow, nil
			})
		d.publisher.EXPECT().Publish(ctx, gomock.Any()).Do(func(_ context.Context, ev kafka.LendingEvent) {
			require.Equal(t, kafka.EventBorrow, ev.EventType)
			require.Equal(t, "b1", ev.BorrowID)
			require.Equal(t, userID, ev.UserID)
			require.Equal(t, bookID, ev.BookID)
		})

		got, err := svc.Borrow(ctx, userID, bookID)
		require.NoError(t, err)
		require.Equal(t, borrow, got)
	})

	t.Run("err. not available, nothing published", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().BorrowBook(ctx, userID, bookID, gomock.Any()).Return(model.Borrow{}, errs.ErrBookNotAvailable)

		_, err := svc.Borrow(ctx, userID, bookID)
		require.ErrorIs(t, err, errs.ErrBookNotAvailable)
	})
}

func TestService_Return(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok. publishes event", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().ReturnBook(ctx, userID, bookID, gomock.Any()).
			Return(model.Borrow{ID: "b1", UserID: userID, BookID: bookID, Status: model.BorrowReturned}, nil)
		d.publisher.EXPECT().Publish(ctx, gomock.Any()).Do(func(_ context.Context, ev kafka.LendingEvent) {
			require.Equal(t, kafka.EventReturn, ev.EventType)
		})

		_, err := svc.Return(ctx, userID, bookID)
		require.NoError(t, err)
	})

	t.Run("err. no active borrow", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().ReturnBook(ctx, userID, bookID, gomock.Any()).Return(model.Borrow{}, errs.ErrNoActiveBorrow)

		_, err := svc.Return(ctx, userID, bookID)
		require.ErrorIs(t, err, errs.ErrNoActiveBorrow)
	})
}

func TestService_GetBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().GetBook(ctx, bookID).Return(model.Book{ID: bookID, Status: model.BookBorrowed}, nil)
		d.repo.EXPECT().ListBookBorrows(ctx, bookID).Return([]model.Borrow{{ID: "b1", Status: model.BorrowActive}}, nil)

		got, err := svc.GetBook(ctx, bookID)
		require.NoError(t, err)
		require.Equal(t, bookID, got.ID)
		require.Len(t, got.Borrows, 1)
	})

	t.Run("err. store failure", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().GetBook(ctx, bookID).Return(model.Book{}, errors.New("conn reset"))

		_, err := svc.GetBook(ctx, bookID)
		require.EqualError(t, err, "conn reset")
	})
}

func TestService_CreateBook(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	ctx := context.Background()
	d.repo.EXPECT().CreateBook(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, b model.Book) (model.Book, error) {
		require.NotEmpty(t, b.ID)
		require.Equal(t, model.BookAvailable, b.Status)
		require.Equal(t, "Dune", b.Title)
		return b, nil
	})

	_, err := svc.CreateBook(ctx, model.CreateBookRequest{Title: "Dune", Author: "Frank Herbert", ISBN: "978-0441013593"})
	require.NoError(t, err)
}
