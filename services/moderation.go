package services

import (
	"chat-gate/errors"
	"chat-gate/repositories"
	"context"
	"log/slog"
)

type IModerationService interface {
	Mute(ctx context.Context, username string) error
	Unmute(ctx context.Context, username string) error
	Remove(ctx context.Context, username string) error
	MuteList(ctx context.Context) ([]string, error)
}

type ModerationService struct {
	users  repositories.IUserRepository
	config repositories.IConfigRepository
	log    *slog.Logger
}

func NewModerationService(users repositories.IUserRepository, config repositories.IConfigRepository, log *slog.Logger) *ModerationService {
	return &ModerationService{users: users, config: config, log: log}
}

// Mute flags the user and adds them to the mute-list cache. The admin
// account cannot be muted.
func (s *ModerationService) Mute(ctx context.Context, username string) error {
	if username == "" {
		return errors.ErrMissingFields
	}
	user, err := s.users.Get(ctx, username)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		return errors.ErrAdminProtected
	}
	user.IsMuted = true
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if err := s.config.AddMuted(ctx, username); err != nil {
		return err
	}
	s.log.Info("User muted", "username", username)
	return nil
}

// Unmute clears the flag and drops the cache entry. Unmuting someone who
// was never muted is a no-op that still succeeds.
func (s *ModerationService) Unmute(ctx context.Context, username string) error {
	if username == "" {
		return errors.ErrMissingFields
	}
	user, err := s.users.Get(ctx, username)
	if err != nil {
		return err
	}
	user.IsMuted = false
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if err := s.config.RemoveMuted(ctx, username); err != nil {
		return err
	}
	s.log.Info("User unmuted", "username", username)
	return nil
}

// Remove deletes the account outright, along with any mute-list cache
// entry so a later registration under the same name starts clean.
// Messages already sent remain, attributed to the removed username.
// The admin cannot be removed.
func (s *ModerationService) Remove(ctx context.Context, username string) error {
	if username == "" {
		return errors.ErrMissingFields
	}
	user, err := s.users.Get(ctx, username)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		return errors.ErrAdminProtected
	}
	if err := s.users.Delete(ctx, username); err != nil {
		return err
	}
	if err := s.config.RemoveMuted(ctx, username); err != nil {
		return err
	}
	s.log.Info("User removed", "username", username)
	return nil
}

// MuteList returns the cached muted usernames.
func (s *ModerationService) MuteList(ctx context.Context) ([]string, error) {
	return s.config.MuteList(ctx)
}
