package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Astemirdum/lending-service/internal/model"
)

type (
	Book              = model.Book
	Borrow            = model.Borrow
	BookWithBorrows   = model.BookWithBorrows
	Profile           = model.Profile
	AuthResponse      = model.AuthResponse
	RegisterRequest   = model.RegisterRequest
	LoginRequest      = model.LoginRequest
	CreateBookRequest = model.CreateBookRequest
	UpdateBookRequest = model.UpdateBookRequest
)

// Error is a non-2xx response of the lending API.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore

	// OnUnauthorized runs after a 401 response has cleared the stored token.
	OnUnauthorized func()
}

type Option func(c *Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithTokenStore(store TokenStore) Option {
	return func(c *Client) {
		c.tokens = store
	}
}

func WithOnUnauthorized(fn func()) Option {
	return func(c *Client) {
		c.OnUnauthorized = fn
	}
}

// New returns a client for the API mounted at baseURL, e.g. http://localhost:5000/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  NewMemoryStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Tokens() TokenStore {
	return c.tokens
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return AuthResponse{}, err
	}
	return resp, c.tokens.SetToken(resp.Token)
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return AuthResponse{}, err
	}
	return resp, c.tokens.SetToken(resp.Token)
}

func (c *Client) Logout() error {
	return c.tokens.Clear()
}

func (c *Client) Profile(ctx context.Context) (Profile, error) {
	var resp Profile
	err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &resp)
	return resp, err
}

func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	var resp []Book
	err := c.do(ctx, http.MethodGet, "/books", nil, &resp)
	return resp, err
}

func (c *Client) GetBook(ctx context.Context, id string) (BookWithBorrows, error) {
	var resp BookWithBorrows
	err := c.do(ctx, http.MethodGet, "/books/"+url.PathEscape(id), nil, &resp)
	return resp, err
}

func (c *Client) CreateBook(ctx context.Context, req CreateBookRequest) (Book, error) {
	var resp Book
	err := c.do(ctx, http.MethodPost, "/books", req, &resp)
	return resp, err
}

func (c *Client) UpdateBook(ctx context.Context, id string, req UpdateBookRequest) (Book, error) {
	var resp Book
	err := c.do(ctx, http.MethodPut, "/books/"+url.PathEscape(id), req, &resp)
	return resp, err
}

func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/books/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Borrow(ctx context.Context, bookID string) (Borrow, error) {
	var resp Borrow
	err := c.do(ctx, http.MethodPost, "/books/"+url.PathEscape(bookID)+"/borrow", nil, &resp)
	return resp, err
}

// Return gives a borrowed book back and yields the server confirmation message.
func (c *Client) Return(ctx context.Context, bookID string) (string, error) {
	var resp model.MessageResponse
	err := c.do(ctx, http.MethodPost, "/books/"+url.PathEscape(bookID)+"/return", nil, &resp)
	return resp.Message, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	body := io.Reader(http.NoBody)
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "json.Marshal")
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "http.NewRequest")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if err := c.authorize(req); err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "http.Do")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.unauthorized()
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

func (c *Client) authorize(req *http.Request) error {
	token, err := c.tokens.Token()
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func (c *Client) unauthorized() {
	_ = c.tokens.Clear()
	if c.OnUnauthorized != nil {
		c.OnUnauthorized()
	}
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
	}
	return apiErr
}
