package user

import "context"

// UserStore defines account operations.
type UserStore interface {
	Register(ctx context.Context, reg Registration) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	Get(ctx context.Context, userID string) (*User, error)
	ListPendingSpecial(ctx context.Context) ([]User, error)
	ResolveSpecialRequest(ctx context.Context, userID string, approve bool) (*User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	EnsureAdmin(ctx context.Context, reg Registration) (*User, error)
}
