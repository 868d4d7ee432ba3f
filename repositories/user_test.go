package repositories

import (
	"chat-gate/errors"
	"chat-gate/storage"
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return storage.NewBadgerStore(db)
}

func Test_User_Create_And_Get(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	alice := User{
		Username:  "alice",
		Password:  "pw",
		Nickname:  "Alice",
		Avatar:    "http://img/a.png",
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	req.NoError(repository.Create(ctx, alice))

	fetched, err := repository.Get(ctx, "alice")
	req.NoError(err)
	req.Equal(alice, fetched)
}

func Test_User_Create_Duplicate(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	req.NoError(repository.Create(ctx, User{Username: "alice", Password: "pw"}))
	err := repository.Create(ctx, User{Username: "alice", Password: "other"})
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func Test_User_Get_Unknown(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(newTestStore(t))

	_, err := repository.Get(context.Background(), "nobody")
	req.ErrorIs(err, errors.ErrUserNotFound)
}

func Test_User_Update_And_Delete(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	user := User{Username: "bob", Password: "pw", Nickname: "Bob"}
	req.NoError(repository.Create(ctx, user))

	user.IsMuted = true
	req.NoError(repository.Update(ctx, user))

	fetched, err := repository.Get(ctx, "bob")
	req.NoError(err)
	req.True(fetched.IsMuted)

	req.NoError(repository.Delete(ctx, "bob"))
	_, err = repository.Get(ctx, "bob")
	req.ErrorIs(err, errors.ErrUserNotFound)
}

func Test_User_All(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	for _, name := range []string{"clara", "alice", "bob"} {
		req.NoError(repository.Create(ctx, User{Username: name, Password: "pw"}))
	}

	users, err := repository.All(ctx)
	req.NoError(err)
	req.Len(users, 3)
}

func Test_User_Sanitized_Strips_Password(t *testing.T) {
	req := require.New(t)
	user := User{Username: "alice", Password: "secret"}
	req.Empty(user.Sanitized().Password)
	req.Equal("secret", user.Password)
}
