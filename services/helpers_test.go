package services

import (
	"chat-gate/repositories"
	"chat-gate/storage"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

const testInviteCode = "xiyue520"

// okValidator accepts every avatar URL; probe behavior has its own tests
// in the avatar package.
type okValidator struct{}

func (okValidator) Validate(context.Context, string) error { return nil }

// failValidator rejects everything, for the invalid-avatar paths.
type failValidator struct{ err error }

func (v failValidator) Validate(context.Context, string) error { return v.err }

type fixture struct {
	db         *badger.DB
	users      *repositories.UserRepository
	messages   *repositories.MessageRepository
	config     *repositories.ConfigRepository
	accounts   *AccountService
	chat       *ChatService
	moderation *ModerationService
	retention  *RetentionService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	store := storage.NewBadgerStore(db)
	users := repositories.NewUserRepository(store)
	messages := repositories.NewMessageRepository(store, log)
	config := repositories.NewConfigRepository(store)

	return fixture{
		db:         db,
		users:      users,
		messages:   messages,
		config:     config,
		accounts:   NewAccountService(users, okValidator{}, testInviteCode, log),
		chat:       NewChatService(users, messages, DefaultMessageWindow, log),
		moderation: NewModerationService(users, config, log),
		retention:  NewRetentionService(messages, config, log),
	}
}

func (f fixture) register(t *testing.T, username string) {
	t.Helper()
	require.NoError(t, f.accounts.Register(context.Background(), RegisterRequest{
		Username:   username,
		Password:   "pw",
		Nickname:   "Nick-" + username,
		Avatar:     "http://img/" + username + ".png",
		InviteCode: testInviteCode,
	}))
}

func (f fixture) bootstrap(t *testing.T) {
	t.Helper()
	require.NoError(t, Bootstrap(context.Background(), f.users, f.config, "20090327qi", slog.Default()))
}

func (f fixture) storeMessageAt(t *testing.T, at time.Time) {
	t.Helper()
	require.NoError(t, f.messages.Store(context.Background(), repositories.Message{
		Username:  "alice",
		Body:      "aGk=",
		Timestamp: at,
	}))
}
