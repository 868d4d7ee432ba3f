package services

import (
	"chat-gate/errors"
	"chat-gate/repositories"
	"context"
	goerrors "errors"
	"log/slog"
	"time"
)

// Fixed identity of the administrator account. Exactly one user carries
// isAdmin=true and it can never be muted or removed.
const (
	AdminUsername = "xiyue"
	adminNickname = "管理员"
	adminAvatar   = "https://i.pravatar.cc/150?u=admin"
)

// Bootstrap idempotently seeds the admin user and the default config.
// It runs once at startup, before traffic is served; a concurrent or
// repeated run is harmless because every step is an existence check
// followed by an insert of the same values.
func Bootstrap(ctx context.Context, users repositories.IUserRepository, config repositories.IConfigRepository, adminPassword string, log *slog.Logger) error {
	_, err := users.Get(ctx, AdminUsername)
	switch {
	case goerrors.Is(err, errors.ErrUserNotFound):
		admin := repositories.User{
			Username:  AdminUsername,
			Password:  adminPassword,
			Nickname:  adminNickname,
			Avatar:    adminAvatar,
			IsAdmin:   true,
			IsMuted:   false,
			CreatedAt: time.Now().UTC(),
		}
		if err := users.Create(ctx, admin); err != nil && !goerrors.Is(err, errors.ErrUserAlreadyExists) {
			return err
		}
		log.Info("Administrator account created", "username", AdminUsername)
	case err != nil:
		return err
	}

	return config.EnsureDefaults(ctx)
}
