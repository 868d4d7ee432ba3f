package repositories

import (
	"chat-gate/storage"
	"context"
	"encoding/json"
	goerrors "errors"
	"time"

	"github.com/samber/lo"
)

const (
	clearTimeKey = "config:messageClearTime"
	muteListKey  = "config:muteList"
)

type IConfigRepository interface {
	EnsureDefaults(ctx context.Context) error
	ClearTime(ctx context.Context) (int64, error)
	SetClearTime(ctx context.Context, millis int64) error
	MuteList(ctx context.Context) ([]string, error)
	AddMuted(ctx context.Context, username string) error
	RemoveMuted(ctx context.Context, username string) error
}

// clearTimeEntry / muteListEntry mirror the original config documents:
// a value plus the time it last changed.
type clearTimeEntry struct {
	Value     int64     `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type muteListEntry struct {
	Value     []string  `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ConfigRepository struct {
	store storage.Store
}

func NewConfigRepository(store storage.Store) *ConfigRepository {
	return &ConfigRepository{store: store}
}

// EnsureDefaults seeds messageClearTime=0 (retention disabled) and an
// empty mute list when absent. Idempotent; safe to run at every startup.
func (r *ConfigRepository) EnsureDefaults(ctx context.Context) error {
	if _, err := r.store.Get(ctx, clearTimeKey); goerrors.Is(err, storage.ErrKeyNotFound) {
		if err := r.SetClearTime(ctx, 0); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if _, err := r.store.Get(ctx, muteListKey); goerrors.Is(err, storage.ErrKeyNotFound) {
		return r.putMuteList(ctx, []string{})
	} else if err != nil {
		return err
	}
	return nil
}

// ClearTime returns the retention threshold in milliseconds, 0 if unset.
func (r *ConfigRepository) ClearTime(ctx context.Context) (int64, error) {
	value, err := r.store.Get(ctx, clearTimeKey)
	if goerrors.Is(err, storage.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var entry clearTimeEntry
	if err := json.Unmarshal(value, &entry); err != nil {
		return 0, err
	}
	return entry.Value, nil
}

func (r *ConfigRepository) SetClearTime(ctx context.Context, millis int64) error {
	value, err := json.Marshal(clearTimeEntry{Value: millis, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return r.store.Put(ctx, clearTimeKey, value)
}

// MuteList returns the cached muted usernames. The cache is trusted as-is,
// not recomputed from a user scan.
func (r *ConfigRepository) MuteList(ctx context.Context) ([]string, error) {
	value, err := r.store.Get(ctx, muteListKey)
	if goerrors.Is(err, storage.ErrKeyNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var entry muteListEntry
	if err := json.Unmarshal(value, &entry); err != nil {
		return nil, err
	}
	return entry.Value, nil
}

func (r *ConfigRepository) AddMuted(ctx context.Context, username string) error {
	muted, err := r.MuteList(ctx)
	if err != nil {
		return err
	}
	return r.putMuteList(ctx, lo.Uniq(append(muted, username)))
}

func (r *ConfigRepository) RemoveMuted(ctx context.Context, username string) error {
	muted, err := r.MuteList(ctx)
	if err != nil {
		return err
	}
	return r.putMuteList(ctx, lo.Without(muted, username))
}

func (r *ConfigRepository) putMuteList(ctx context.Context, usernames []string) error {
	value, err := json.Marshal(muteListEntry{Value: usernames, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return r.store.Put(ctx, muteListKey, value)
}
