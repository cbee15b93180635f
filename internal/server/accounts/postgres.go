package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmartins/askgate/internal/common"
	"github.com/dmartins/askgate/internal/dbx"
)

// pgUniqueViolation is the PostgreSQL error code for a unique constraint
// violation (class 23, integrity constraint violation).
const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository wraps a database handle; both *sql.DB and *sql.Tx
// are accepted, so callers decide the transaction scope.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	query :=
		`SELECT id, username, email, password_hash, role, is_active, created_at
		 FROM auth.users
		 WHERE id = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) FindByLoginOrEmail(ctx context.Context, value string) (*Account, error) {
	query :=
		`SELECT id, username, email, password_hash, role, is_active, created_at
		 FROM auth.users
		 WHERE username = $1 OR email = $1
		 LIMIT 1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, value))
}

func (r *PostgresRepository) ExistsByLoginOrEmail(ctx context.Context, username, email string) (bool, error) {
	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM auth.users WHERE username = $1 OR email = $2
		 )`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("error performing sql request: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) Create(ctx context.Context, account *Account) (*Account, error) {
	query :=
		`INSERT INTO auth.users (id, username, email, password_hash, role, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Username, account.Email,
		account.PasswordHash, account.Role, account.Active,
	).Scan(&account.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*Account, error) {
	account := &Account{}
	err := row.Scan(
		&account.ID, &account.Username, &account.Email,
		&account.PasswordHash, &account.Role, &account.Active, &account.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return account, nil
}
