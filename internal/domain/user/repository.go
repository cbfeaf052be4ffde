package user

import "context"

type UserRepository interface {
	// Create fails with ErrUserEmailExists when the email is taken.
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}
