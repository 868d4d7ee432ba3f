package services

import (
	"chat-gate/errors"
	"chat-gate/repositories"
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = validator.New()

// AvatarValidator is the outbound probe of candidate avatar URLs;
// satisfied by avatar.Prober.
type AvatarValidator interface {
	Validate(ctx context.Context, rawURL string) error
}

type IAccountService interface {
	Register(ctx context.Context, request RegisterRequest) error
	Login(ctx context.Context, username, password string) (repositories.User, error)
	Users(ctx context.Context) ([]repositories.User, error)
	UpdateAvatar(ctx context.Context, username, avatarURL string) error
	UpdatePassword(ctx context.Context, username, oldPassword, newPassword string) error
}

type AccountService struct {
	users      repositories.IUserRepository
	prober     AvatarValidator
	inviteCode string
	log        *slog.Logger
}

func NewAccountService(users repositories.IUserRepository, prober AvatarValidator, inviteCode string, log *slog.Logger) *AccountService {
	return &AccountService{users: users, prober: prober, inviteCode: inviteCode, log: log}
}

type RegisterRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	Nickname   string `json:"nickname" validate:"required"`
	Avatar     string `json:"avatar" validate:"required"`
	InviteCode string `json:"inviteCode" validate:"required"`
}

// Register creates a non-admin account. Checks run in the original order:
// presence, invite code, avatar probe, then the duplicate check on insert.
func (s *AccountService) Register(ctx context.Context, request RegisterRequest) error {
	if err := validate.Struct(request); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrMissingFields, err)
	}
	if !strings.EqualFold(request.InviteCode, s.inviteCode) {
		return errors.ErrInvalidInviteCode
	}
	if err := s.prober.Validate(ctx, request.Avatar); err != nil {
		return err
	}

	user := repositories.User{
		Username:  request.Username,
		Password:  request.Password, // Stored as-is; existing backends hold plaintext credentials.
		Nickname:  request.Nickname,
		Avatar:    request.Avatar,
		IsAdmin:   false,
		IsMuted:   false,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}
	s.log.Info("User registered", "username", request.Username)
	return nil
}

// Login checks credentials by plain equality and returns the user with
// the password stripped. Unknown user and wrong password are the same
// error, so callers cannot enumerate accounts.
func (s *AccountService) Login(ctx context.Context, username, password string) (repositories.User, error) {
	if username == "" || password == "" {
		return repositories.User{}, errors.ErrMissingFields
	}
	user, err := s.users.Get(ctx, username)
	if goerrors.Is(err, errors.ErrUserNotFound) {
		return repositories.User{}, errors.ErrInvalidCredential
	}
	if err != nil {
		return repositories.User{}, err
	}
	if user.Password != password {
		return repositories.User{}, errors.ErrInvalidCredential
	}
	return user.Sanitized(), nil
}

// Users lists every account without passwords.
func (s *AccountService) Users(ctx context.Context) ([]repositories.User, error) {
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(user repositories.User, _ int) repositories.User {
		return user.Sanitized()
	}), nil
}

// UpdateAvatar re-probes the new URL before swapping it in.
func (s *AccountService) UpdateAvatar(ctx context.Context, username, avatarURL string) error {
	if username == "" || avatarURL == "" {
		return errors.ErrMissingFields
	}
	if err := s.prober.Validate(ctx, avatarURL); err != nil {
		return err
	}
	user, err := s.users.Get(ctx, username)
	if err != nil {
		return err
	}
	user.Avatar = avatarURL
	return s.users.Update(ctx, user)
}

// UpdatePassword verifies the old password before storing the new one.
func (s *AccountService) UpdatePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if username == "" || oldPassword == "" || newPassword == "" {
		return errors.ErrMissingFields
	}
	user, err := s.users.Get(ctx, username)
	if err != nil {
		return err
	}
	if user.Password != oldPassword {
		return errors.ErrInvalidCredential
	}
	user.Password = newPassword
	return s.users.Update(ctx, user)
}
