package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/handler"
	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/pkg/auth"
	"github.com/Astemirdum/lending-service/pkg/client"

	service_mocks "github.com/Astemirdum/lending-service/internal/handler/mocks"
)

const bookID = "f7cdc58f-2caf-4b15-9727-f89dcc629b27"

func newServer(t *testing.T) (*service_mocks.MockLendingService, string) {
	t.Helper()
	svc := service_mocks.NewMockLendingService(gomock.NewController(t))
	srv := httptest.NewServer(handler.New(svc, zap.NewNop(), false).NewRouter())
	t.Cleanup(srv.Close)
	return svc, srv.URL + "/api"
}

func TestClient_LoginStoresToken(t *testing.T) {
	t.Parallel()
	svc, baseURL := newServer(t)
	cl := client.New(baseURL)

	svc.EXPECT().
		Login(gomock.Any(), model.LoginRequest{Email: "john@example.com", Password: "secret1"}).
		Return(model.AuthResponse{ID: "u1", Name: "John", Email: "john@example.com", Token: "jwt"}, nil)
	svc.EXPECT().Authenticate(gomock.Any(), "jwt").Return(auth.Identity{ID: "u1"}, nil)
	svc.EXPECT().Borrow(gomock.Any(), "u1", bookID).Return(model.Borrow{ID: "b1", BookID: bookID}, nil)

	resp, err := cl.Login(context.Background(), client.LoginRequest{Email: "john@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "John", resp.Name)

	token, err := cl.Tokens().Token()
	require.NoError(t, err)
	require.Equal(t, "jwt", token)

	borrow, err := cl.Borrow(context.Background(), bookID)
	require.NoError(t, err)
	require.Equal(t, "b1", borrow.ID)
}

func TestClient_ErrorDecoding(t *testing.T) {
	t.Parallel()
	svc, baseURL := newServer(t)
	cl := client.New(baseURL)
	require.NoError(t, cl.Tokens().SetToken("jwt"))

	svc.EXPECT().Authenticate(gomock.Any(), "jwt").Return(auth.Identity{ID: "u1"}, nil)
	svc.EXPECT().Borrow(gomock.Any(), "u1", bookID).Return(model.Borrow{}, errs.ErrBookNotAvailable)

	_, err := cl.Borrow(context.Background(), bookID)
	var apiErr *client.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "Book is not available", apiErr.Message)
}

func TestClient_UnauthorizedClearsToken(t *testing.T) {
	t.Parallel()
	svc, baseURL := newServer(t)
	called := 0
	cl := client.New(baseURL, client.WithOnUnauthorized(func() { called++ }))
	require.NoError(t, cl.Tokens().SetToken("expired"))

	svc.EXPECT().Authenticate(gomock.Any(), "expired").Return(auth.Identity{}, errs.ErrUnauthorized)

	_, err := cl.Profile(context.Background())
	var apiErr *client.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Equal(t, "Not authorized to access this route", apiErr.Message)
	require.Equal(t, 1, called)

	token, err := cl.Tokens().Token()
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	t.Parallel()
	got := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	cl := client.New(srv.URL + "/api")
	books, err := cl.ListBooks(context.Background())
	require.NoError(t, err)
	require.Empty(t, books)

	require.NoError(t, cl.Tokens().SetToken("jwt"))
	_, err = cl.ListBooks(context.Background())
	require.NoError(t, err)

	require.Equal(t, "", <-got)
	require.Equal(t, "Bearer jwt", <-got)
}

func TestClient_DeleteBookNoContent(t *testing.T) {
	t.Parallel()
	svc, baseURL := newServer(t)
	cl := client.New(baseURL)
	require.NoError(t, cl.Tokens().SetToken("jwt"))

	svc.EXPECT().Authenticate(gomock.Any(), "jwt").Return(auth.Identity{ID: "u1"}, nil)
	svc.EXPECT().DeleteBook(gomock.Any(), bookID).Return(nil)

	require.NoError(t, cl.DeleteBook(context.Background(), bookID))
}

func TestFileStore(t *testing.T) {
	t.Parallel()
	store := client.NewFileStore(filepath.Join(t.TempDir(), "lendingctl", "token"))

	token, err := store.Token()
	require.NoError(t, err)
	require.Empty(t, token)

	require.NoError(t, store.SetToken("jwt"))
	token, err = store.Token()
	require.NoError(t, err)
	require.Equal(t, "jwt", token)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	token, err = store.Token()
	require.NoError(t, err)
	require.Empty(t, token)
}
