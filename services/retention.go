package services

import (
	"chat-gate/errors"
	"chat-gate/repositories"
	"context"
	"log/slog"
	"time"
)

type IRetentionService interface {
	ClearTime(ctx context.Context) (int64, error)
	SetClearTime(ctx context.Context, millis int64) error
	Sweep(ctx context.Context) error
}

type RetentionService struct {
	messages repositories.IMessageRepository
	config   repositories.IConfigRepository
	log      *slog.Logger
}

func NewRetentionService(messages repositories.IMessageRepository, config repositories.IConfigRepository, log *slog.Logger) *RetentionService {
	return &RetentionService{messages: messages, config: config, log: log}
}

// ClearTime reports the retention threshold in milliseconds; 0 disables
// the sweep.
func (s *RetentionService) ClearTime(ctx context.Context) (int64, error) {
	return s.config.ClearTime(ctx)
}

func (s *RetentionService) SetClearTime(ctx context.Context, millis int64) error {
	if millis < 0 {
		return errors.ErrInvalidClearTime
	}
	return s.config.SetClearTime(ctx, millis)
}

// Sweep deletes every message older than now minus the configured
// threshold. Partial progress is fine; the next cycle picks up the rest.
func (s *RetentionService) Sweep(ctx context.Context) error {
	clearTime, err := s.config.ClearTime(ctx)
	if err != nil {
		return err
	}
	if clearTime == 0 {
		return nil
	}

	cutoff := time.Now().Add(-time.Duration(clearTime) * time.Millisecond)
	deleted, err := s.messages.DeleteBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	s.log.Info("Retention sweep finished", "cutoff", cutoff.UTC(), "deleted", deleted)
	return nil
}
