package service

import (
	"context"

	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/pkg/kafka"
)

// GetStats aggregates consumed lending events per user.
func (s *Service) GetStats(ctx context.Context) (model.StatsInfo, error) {
	return s.repo.GetStats(ctx)
}

// SaveEvent used by kafka consumer.
func (s *Service) SaveEvent(ctx context.Context, event kafka.LendingEvent) error {
	return s.repo.SaveEvent(ctx, event)
}
