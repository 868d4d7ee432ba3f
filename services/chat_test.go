package services

import (
	"chat-gate/errors"
	"chat-gate/repositories"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChatService_Send(t *testing.T) {
	t.Run("should store an obfuscated body with a profile snapshot", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.register(t, "alice")
		ctx := context.Background()

		req.NoError(f.chat.Send(ctx, "alice", "hi"))

		stored, err := f.messages.All(ctx)
		req.NoError(err)
		req.Len(stored, 1)
		req.Equal("aGk=", stored[0].Body) // base64("hi"), as persisted
		req.Equal("Nick-alice", stored[0].Nickname)
		req.Equal("http://img/alice.png", stored[0].Avatar)

		listed, err := f.chat.Messages(ctx)
		req.NoError(err)
		req.Len(listed, 1)
		req.Equal("hi", listed[0].Body)
	})

	t.Run("should fail with missing fields", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		req.ErrorIs(f.chat.Send(context.Background(), "", "hi"), errors.ErrMissingFields)
		req.ErrorIs(f.chat.Send(context.Background(), "alice", ""), errors.ErrMissingFields)
	})

	t.Run("should fail for an unknown sender", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		req.ErrorIs(f.chat.Send(context.Background(), "ghost", "boo"), errors.ErrUserNotFound)
	})

	t.Run("should forbid a muted sender until unmuted", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.register(t, "alice")
		ctx := context.Background()

		req.NoError(f.moderation.Mute(ctx, "alice"))
		req.ErrorIs(f.chat.Send(ctx, "alice", "x"), errors.ErrUserMuted)

		req.NoError(f.moderation.Unmute(ctx, "alice"))
		req.NoError(f.chat.Send(ctx, "alice", "x"))
	})
}

func TestChatService_Messages_Window(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := range DefaultMessageWindow + 10 {
		f.storeMessageAt(t, base.Add(time.Duration(i)*time.Second))
	}

	messages, err := f.chat.Messages(ctx)
	req.NoError(err)
	req.Len(messages, DefaultMessageWindow)

	// Non-decreasing timestamps, and only the newest survive the cut.
	for i := 1; i < len(messages); i++ {
		req.False(messages[i].Timestamp.Before(messages[i-1].Timestamp))
	}
	req.Equal(base.Add(10*time.Second).UnixNano(), messages[0].Timestamp.UnixNano())
}

func TestChatService_Messages_Keeps_Undecodable_Bodies(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	corrupted := "%%%not-base64%%%"
	req.NoError(f.messages.Store(ctx, repositories.Message{
		Username:  "alice",
		Body:      corrupted,
		Timestamp: time.Now().UTC(),
	}))
	f.storeMessageAt(t, time.Now().UTC())

	messages, err := f.chat.Messages(ctx)
	req.NoError(err)
	req.Len(messages, 2)
	req.Equal(corrupted, messages[0].Body) // returned as stored, listing intact
	req.Equal("hi", messages[1].Body)
}

func TestChatService_Clear(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx := context.Background()

	for range 3 {
		f.storeMessageAt(t, time.Now().UTC())
	}
	req.NoError(f.chat.Clear(ctx))

	messages, err := f.chat.Messages(ctx)
	req.NoError(err)
	req.Empty(messages)
}
