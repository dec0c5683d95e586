package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/pkg/auth"
)

// bcrypt rejects longer input; validator counts runes, not bytes.
const maxPasswordBytes = 72

var errPasswordTooLong = errs.BadRequest("Password must be at most 72 bytes")

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	if len(req.Password) > maxPasswordBytes {
		return model.AuthResponse{}, errPasswordTooLong
	}
	_, err := s.repo.GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return model.AuthResponse{}, errs.ErrUserExists
	case !errors.Is(err, errs.ErrUserNotFound):
		return model.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return model.AuthResponse{}, errPasswordTooLong
		}
		return model.AuthResponse{}, errors.Wrap(err, "bcrypt.GenerateFromPassword")
	}

	user, err := s.repo.CreateUser(ctx, model.User{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
	})
	if err != nil {
		return model.AuthResponse{}, err
	}
	s.log.Info("user registered", zap.String("id", user.ID))

	return s.authResponse(user)
}

// Login reports an unknown email and a wrong password identically.
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return model.AuthResponse{}, errs.ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return model.AuthResponse{}, errs.ErrInvalidCredentials
	}
	return s.authResponse(user)
}

func (s *Service) authResponse(user model.User) (model.AuthResponse, error) {
	token, err := s.tokens.Issue(auth.Identity{ID: user.ID, Email: user.Email})
	if err != nil {
		return model.AuthResponse{}, err
	}
	return model.AuthResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	}, nil
}

// Authenticate resolves a bearer token to an existing user.
// Bad tokens and unknown users both yield ErrUnauthorized.
func (s *Service) Authenticate(ctx context.Context, token string) (auth.Identity, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		s.log.Debug("token rejected", zap.Error(err))
		return auth.Identity{}, errs.ErrUnauthorized
	}
	user, err := s.repo.GetUserByID(ctx, id.ID)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return auth.Identity{}, errs.ErrUnauthorized
		}
		return auth.Identity{}, err
	}
	return auth.Identity{ID: user.ID, Email: user.Email}, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (model.Profile, error) {
	var (
		user    model.User
		borrows []model.BorrowWithBook
	)
	gg, gctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		var err error
		user, err = s.repo.GetUserByID(gctx, userID)
		return err
	})
	gg.Go(func() error {
		var err error
		borrows, err = s.repo.ListUserBorrows(gctx, userID)
		return err
	})
	if err := gg.Wait(); err != nil {
		return model.Profile{}, err
	}
	if borrows == nil {
		borrows = make([]model.BorrowWithBook, 0)
	}

	return model.Profile{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
		Borrows:   borrows,
	}, nil
}
