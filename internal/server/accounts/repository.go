package accounts

import "context"

// Repository is the gateway's contract against the account store.
// Implementations return common.ErrNotFound when no record matches and
// common.ErrConflict when an insert collides with an existing record.
type Repository interface {
	// FindByID returns the account with the given identifier.
	FindByID(ctx context.Context, id string) (*Account, error)

	// FindByLoginOrEmail returns the account whose username or email equals
	// value. Both columns are unique, so at most one record can match.
	FindByLoginOrEmail(ctx context.Context, value string) (*Account, error)

	// ExistsByLoginOrEmail reports whether a record with the given username
	// or email already exists.
	ExistsByLoginOrEmail(ctx context.Context, username, email string) (bool, error)

	// Create inserts a new account and returns it with ID and CreatedAt set.
	Create(ctx context.Context, account *Account) (*Account, error)
}
