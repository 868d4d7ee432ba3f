package services

import (
	"chat-gate/codec"
	"chat-gate/errors"
	"chat-gate/repositories"
	"context"
	"log/slog"
	"time"
)

// DefaultMessageWindow caps how many messages a listing returns.
const DefaultMessageWindow = 50

type IChatService interface {
	Send(ctx context.Context, username, body string) error
	Messages(ctx context.Context) ([]repositories.Message, error)
	Clear(ctx context.Context) error
}

type ChatService struct {
	users    repositories.IUserRepository
	messages repositories.IMessageRepository
	window   int
	log      *slog.Logger
}

func NewChatService(users repositories.IUserRepository, messages repositories.IMessageRepository, window int, log *slog.Logger) *ChatService {
	if window <= 0 {
		window = DefaultMessageWindow
	}
	return &ChatService{users: users, messages: messages, window: window, log: log}
}

// Send posts a message on behalf of username. The sender's nickname and
// avatar are snapshotted into the message, so later profile edits or a
// removal leave history untouched.
func (s *ChatService) Send(ctx context.Context, username, body string) error {
	if username == "" || body == "" {
		return errors.ErrMissingFields
	}
	user, err := s.users.Get(ctx, username)
	if err != nil {
		return err
	}
	if user.IsMuted {
		return errors.ErrUserMuted
	}

	return s.messages.Store(ctx, repositories.Message{
		Username:  user.Username,
		Nickname:  user.Nickname,
		Avatar:    user.Avatar,
		Body:      codec.Encode(body),
		Timestamp: time.Now().UTC(),
	})
}

// Messages returns the newest messages of the window, ascending by
// timestamp, with bodies decoded. A body that fails to decode comes back
// as stored.
func (s *ChatService) Messages(ctx context.Context) ([]repositories.Message, error) {
	all, err := s.messages.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > s.window {
		all = all[len(all)-s.window:]
	}
	for i := range all {
		all[i].Body = codec.Decode(all[i].Body)
	}
	return all, nil
}

// Clear wipes every message unconditionally.
func (s *ChatService) Clear(ctx context.Context) error {
	deleted, err := s.messages.DeleteAll(ctx)
	if err != nil {
		return err
	}
	s.log.Info("All messages cleared", "deleted", deleted)
	return nil
}
