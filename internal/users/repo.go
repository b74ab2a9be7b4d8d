package users

import "context"

// Repo persists users. Create stores the identity only; the password hash is
// written separately through SetPasswordHash.
type Repo interface {
	Create(ctx context.Context, user User) (User, error)
	SetPasswordHash(ctx context.Context, userID int64, hash string) error
	GetByID(ctx context.Context, userID int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// WithTx runs fn against a repo bound to a single transaction.
	WithTx(ctx context.Context, fn func(repo Repo) error) error
}
