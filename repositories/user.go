package repositories

import (
	"chat-gate/errors"
	"chat-gate/storage"
	"context"
	"encoding/json"
	goerrors "errors"
	"time"

	"github.com/samber/lo"
)

const userPrefix = "user:"

type IUserRepository interface {
	Create(ctx context.Context, user User) error
	Get(ctx context.Context, username string) (User, error)
	Update(ctx context.Context, user User) error
	Delete(ctx context.Context, username string) error
	All(ctx context.Context) ([]User, error)
}

// User is the stored account record. Password is plaintext, faithful to
// the data already in production backends; omitempty keeps it out of
// responses once Sanitized clears it.
type User struct {
	Username  string    `json:"username"`
	Password  string    `json:"password,omitempty"`
	Nickname  string    `json:"nickname"`
	Avatar    string    `json:"avatar"`
	IsAdmin   bool      `json:"isAdmin"`
	IsMuted   bool      `json:"isMuted"`
	CreatedAt time.Time `json:"createdAt"`
}

// Sanitized returns a copy safe to hand to clients.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

type UserRepository struct {
	store storage.Store
}

func NewUserRepository(store storage.Store) *UserRepository {
	return &UserRepository{store: store}
}

func userKey(username string) string {
	return userPrefix + username
}

// Create persists a new user. The existence check and the write are two
// storage calls; a concurrent duplicate register may race, which the
// backend resolves as last-write-wins.
func (r *UserRepository) Create(ctx context.Context, user User) error {
	if _, err := r.store.Get(ctx, userKey(user.Username)); err == nil {
		return errors.ErrUserAlreadyExists
	} else if !goerrors.Is(err, storage.ErrKeyNotFound) {
		return err
	}
	return r.put(ctx, user)
}

func (r *UserRepository) Get(ctx context.Context, username string) (User, error) {
	value, err := r.store.Get(ctx, userKey(username))
	if goerrors.Is(err, storage.ErrKeyNotFound) {
		return User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	var user User
	if err := json.Unmarshal(value, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user User) error {
	return r.put(ctx, user)
}

func (r *UserRepository) Delete(ctx context.Context, username string) error {
	return r.store.Delete(ctx, userKey(username))
}

func (r *UserRepository) All(ctx context.Context) ([]User, error) {
	records, err := r.store.List(ctx, userPrefix)
	if err != nil {
		return nil, err
	}
	users := make([]User, 0, len(records))
	for _, record := range records {
		var user User
		if err := json.Unmarshal(record.Value, &user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *UserRepository) put(ctx context.Context, user User) error {
	value, err := json.Marshal(lo.ToPtr(user))
	if err != nil {
		return err
	}
	return r.store.Put(ctx, userKey(user.Username), value)
}
