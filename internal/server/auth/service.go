package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmartins/askgate/internal/common"
	"github.com/dmartins/askgate/internal/dbx"
	"github.com/dmartins/askgate/internal/server/accounts"
	"github.com/dmartins/askgate/internal/server/config"
	"github.com/dmartins/askgate/internal/server/storage"
)

const bearerScheme = "Bearer"

// Identity is the resolved, store-validated identity context for a single
// authorized request.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// LoginResult bundles the issued session token with the public account
// summary returned to the caller.
type LoginResult struct {
	Token   string
	Account accounts.Summary
}

// adminDefaults are the credentials used by the parameterless provisioning
// flow (administrative bootstrap).
type adminDefaults struct {
	username string
	email    string
	password string
	role     string
}

// Service is the Authenticator: it composes the account store, the password
// hasher, and the token issuer into the login, authorization, and
// provisioning flows.
type Service struct {
	db     *sql.DB
	store  storage.Manager
	issuer *Issuer
	cost   int
	admin  adminDefaults
}

func NewService(store storage.Manager, issuer *Issuer, cfg *config.Config) *Service {
	return &Service{
		db:     store.Conn(),
		store:  store,
		issuer: issuer,
		cost:   cfg.BCryptCost,
		admin: adminDefaults{
			username: cfg.AdminUsername,
			email:    cfg.AdminEmail,
			password: cfg.AdminPassword,
			role:     cfg.AdminRole,
		},
	}
}

// Login verifies the credentials for the account matching login (username or
// email) and, on success, issues a session token.
//
// Failure kinds: ErrNotFound (unknown login), ErrInactive (account
// deactivated), ErrBadCredentials (password mismatch), ErrInternal.
func (s *Service) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	repo := s.store.Accounts(s.db)

	account, err := repo.FindByLoginOrEmail(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, internalError(err)
	}

	if !account.Active {
		return nil, common.ErrInactive
	}

	if !VerifyPassword(password, account.PasswordHash) {
		return nil, common.ErrBadCredentials
	}

	token, err := s.issuer.Issue(Claims{UserID: account.ID, Role: account.Role})
	if err != nil {
		return nil, internalError(err)
	}

	return &LoginResult{Token: token, Account: account.Public()}, nil
}

// Authorize resolves a raw Authorization header into an Identity.
//
// The token alone is never trusted for account state: the account is
// re-fetched on every request, so deactivation takes effect on the next
// request even though the token stays cryptographically valid until expiry.
//
// Failure kinds: ErrUnauthenticated (missing/malformed header, invalid or
// expired token, vanished account), ErrForbidden (account deactivated),
// ErrInternal.
func (s *Service) Authorize(ctx context.Context, authorization string) (*Identity, error) {
	scheme, tokenString, ok := strings.Cut(strings.TrimSpace(authorization), " ")
	tokenString = strings.TrimSpace(tokenString)
	if !ok || !strings.EqualFold(scheme, bearerScheme) || tokenString == "" {
		return nil, common.ErrUnauthenticated
	}

	claims, err := s.issuer.Verify(tokenString)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}

	userID, _ := claims[claimUserID].(string)
	if userID == "" {
		return nil, common.ErrUnauthenticated
	}

	repo := s.store.Accounts(s.db)

	account, err := repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, internalError(err)
	}

	if !account.Active {
		return nil, common.ErrForbidden
	}

	// The stored role wins; the token claim is only a fallback for records
	// without one.
	role := account.Role
	if role == "" {
		role, _ = claims[claimRole].(string)
	}

	return &Identity{
		ID:       account.ID,
		Username: account.Username,
		Email:    account.Email,
		Role:     role,
	}, nil
}

// Provision creates a new account with the given credentials. The password
// is hashed outside the transaction (bcrypt is CPU-bound); the existence
// check and insert run inside one, and the store's unique constraints remain
// the final arbiter against concurrent provisioning.
//
// Failure kinds: ErrConflict (username or email already taken), ErrInternal.
func (s *Service) Provision(ctx context.Context, username, email, password, role string) (*accounts.Account, error) {
	hash, err := HashPassword(password, s.cost)
	if err != nil {
		return nil, internalError(err)
	}

	var created *accounts.Account
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.store.Accounts(tx)

		exists, err := repo.ExistsByLoginOrEmail(ctx, username, email)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrConflict
		}

		created, err = repo.Create(ctx, &accounts.Account{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			Role:         role,
			Active:       true,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.ErrConflict
		}
		return nil, internalError(err)
	}

	return created, nil
}

// ProvisionDefaultAdmin runs the provisioning flow with the configured
// administrative defaults. Repeated calls after the first report ErrConflict.
func (s *Service) ProvisionDefaultAdmin(ctx context.Context) (*accounts.Account, error) {
	return s.Provision(ctx, s.admin.username, s.admin.email, s.admin.password, s.admin.role)
}

// internalError wraps an unexpected failure so it still matches
// common.ErrInternal with errors.Is while the cause stays in the message
// for operator logs.
func internalError(err error) error {
	return fmt.Errorf("%w: %v", common.ErrInternal, err)
}
