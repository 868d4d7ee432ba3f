package repositories

import (
	"chat-gate/storage"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const messagePrefix = "msg:"

type IMessageRepository interface {
	Store(ctx context.Context, message Message) error
	All(ctx context.Context) ([]Message, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int, error)
	DeleteAll(ctx context.Context) (int, error)
}

// Message is one chat entry. Nickname and Avatar are snapshots of the
// sender at post time; Body is stored obfuscated by the codec.
type Message struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Nickname  string    `json:"nickname"`
	Avatar    string    `json:"avatar"`
	Body      string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type MessageRepository struct {
	store storage.Store
	log   *slog.Logger
}

func NewMessageRepository(store storage.Store, log *slog.Logger) *MessageRepository {
	return &MessageRepository{store: store, log: log}
}

// messageKey formats "msg:{timestamp_padded}:{uuid}" so that:
//  1. 19-digit zero padding makes lexicographic order chronological.
//  2. The UUID suffix disconnects collisions when two messages land in
//     the same nanosecond.
func messageKey(at time.Time, id uuid.UUID) string {
	return fmt.Sprintf("%s%019d:%s", messagePrefix, at.UnixNano(), id)
}

// keyTimestamp recovers the creation time embedded in a message key, so
// retention can run off keys alone on every backend.
func keyTimestamp(key string) (time.Time, bool) {
	parts := strings.SplitN(strings.TrimPrefix(key, messagePrefix), ":", 2)
	if len(parts) != 2 {
		return time.Time{}, false
	}
	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(0, nanos).UTC(), true
}

// Store assigns the message id and persists it under a time-ordered key.
func (r *MessageRepository) Store(ctx context.Context, message Message) error {
	id := uuid.New()
	message.ID = fmt.Sprintf("%019d-%s", message.Timestamp.UnixNano(), id)
	value, err := json.Marshal(lo.ToPtr(message))
	if err != nil {
		return err
	}
	return r.store.Put(ctx, messageKey(message.Timestamp, id), value)
}

// All returns every message in ascending timestamp order. A record that
// no longer unmarshals is logged and skipped rather than failing the
// whole listing.
func (r *MessageRepository) All(ctx context.Context) ([]Message, error) {
	records, err := r.store.List(ctx, messagePrefix)
	if err != nil {
		return nil, err
	}
	messages := make([]Message, 0, len(records))
	for _, record := range records {
		var message Message
		if err := json.Unmarshal(record.Value, &message); err != nil {
			r.log.Warn("Skipping unreadable message record", "key", record.Key, "error", err)
			continue
		}
		messages = append(messages, message)
	}
	return messages, nil
}

// DeleteBefore removes every message older than cutoff and reports how
// many were deleted. It scans keys only; values are never fetched.
func (r *MessageRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int, error) {
	records, err := r.store.List(ctx, messagePrefix)
	if err != nil {
		return 0, err
	}
	var stale []string
	for _, record := range records {
		at, ok := keyTimestamp(record.Key)
		if !ok {
			r.log.Warn("Skipping message key without embedded timestamp", "key", record.Key)
			continue
		}
		if at.Before(cutoff) {
			stale = append(stale, record.Key)
		}
	}
	if err := r.store.DeleteKeys(ctx, stale); err != nil {
		return 0, err
	}
	return len(stale), nil
}

// DeleteAll wipes the message space unconditionally.
func (r *MessageRepository) DeleteAll(ctx context.Context) (int, error) {
	records, err := r.store.List(ctx, messagePrefix)
	if err != nil {
		return 0, err
	}
	keys := lo.Map(records, func(record storage.Record, _ int) string { return record.Key })
	if err := r.store.DeleteKeys(ctx, keys); err != nil {
		return 0, err
	}
	return len(keys), nil
}
