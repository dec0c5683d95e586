package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/internal/repository"
	"github.com/Astemirdum/lending-service/pkg/auth"
	"github.com/Astemirdum/lending-service/pkg/kafka"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type TokenManager interface {
	Issue(id auth.Identity) (string, error)
	Parse(token string) (auth.Identity, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event kafka.LendingEvent)
}

type Service struct {
	log       *zap.Logger
	repo      repository.Repository
	tokens    TokenManager
	publisher EventPublisher
	now       func() time.Time
}

func NewService(repo repository.Repository, tokens TokenManager, publisher EventPublisher, log *zap.Logger) *Service {
	return &Service{
		log:       log.Named("service"),
		repo:      repo,
		tokens:    tokens,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}
