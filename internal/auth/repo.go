package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type Account struct {
	ID           string
	Username     string
	PasswordHash string
	TokenVersion int
	CreatedAt    time.Time
}

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Create(ctx context.Context, a Account) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO accounts (id, username, password_hash)
		VALUES (?, ?, ?)
	`, a.ID, a.Username, a.PasswordHash)

	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (*Account, error) {
	username = strings.TrimSpace(username)
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, username, password_hash, token_version, created_at
		FROM accounts
		WHERE username = ?
	`, username)

	var a Account
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.TokenVersion, &a.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get by username: %w", err)
	}
	return &a, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Account, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, username, password_hash, token_version, created_at
		FROM accounts
		WHERE id = ?
	`, id)

	var a Account
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.TokenVersion, &a.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}
	return &a, nil
}

func (r *Repo) GetTokenVersion(ctx context.Context, id string) (int, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT token_version
		FROM accounts
		WHERE id = ?
	`, id)

	var version int
	if err := row.Scan(&version); err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("get token version: account not found")
		}
		return 0, fmt.Errorf("get token version: %w", err)
	}
	return version, nil
}

func (r *Repo) UpdatePasswordAndBumpTokenVersion(ctx context.Context, id string, passwordHash string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update password: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET password_hash = ?, token_version = token_version + 1
		WHERE id = ?
	`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update password: account not found")
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update password: %w", err)
	}
	return nil
}

func (r *Repo) BumpTokenVersion(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE accounts
		SET token_version = token_version + 1
		WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("bump token version: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("bump token version rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("bump token version: account not found")
	}
	return nil
}
