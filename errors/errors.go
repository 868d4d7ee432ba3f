package errors

import "fmt"

var (
	ErrMissingFields     = fmt.Errorf("missing required fields")
	ErrInvalidClearTime  = fmt.Errorf("invalid time value")
	ErrInvalidAvatar     = fmt.Errorf("invalid avatar URL or file too large (max 2MB)")
	ErrInvalidInviteCode = fmt.Errorf("invalid invite code")
	ErrInvalidCredential = fmt.Errorf("wrong username or password")
	ErrUserNotFound      = fmt.Errorf("user not found")
	ErrUserAlreadyExists = fmt.Errorf("username already exists")
	ErrUserMuted         = fmt.Errorf("you are muted and cannot send messages")
	ErrAdminProtected    = fmt.Errorf("the administrator cannot be targeted")
)
