package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"resume-builder/internal/shared/storage/db"
)

const uniqueViolation = "23505"

type PGRepo struct {
	DB *sql.DB
	tx db.DBTX
}

func (r *PGRepo) conn() db.DBTX {
	if r.tx != nil {
		return r.tx
	}
	return r.DB
}

func (r *PGRepo) WithTx(ctx context.Context, fn func(repo Repo) error) error {
	if r.tx != nil {
		return fn(r)
	}
	return db.WithTx(ctx, r.DB, nil, func(ctx context.Context, tx db.DBTX) error {
		return fn(&PGRepo{DB: r.DB, tx: tx})
	})
}

func (r *PGRepo) Create(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (email, username, first_name, last_name, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
RETURNING id, created_at, updated_at`
	err := r.conn().QueryRowContext(ctx, query,
		user.Email,
		user.Username,
		user.FirstName,
		user.LastName,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *PGRepo) SetPasswordHash(ctx context.Context, userID int64, hash string) error {
	const query = `UPDATE users SET password_hash = $1 WHERE id = $2`
	res, err := r.conn().ExecContext(ctx, query, hash, userID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID int64) (User, error) {
	const query = `
SELECT id, email, username, first_name, last_name, password_hash, created_at, updated_at
FROM users
WHERE id = $1`
	return r.scanOne(r.conn().QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT id, email, username, first_name, last_name, password_hash, created_at, updated_at
FROM users
WHERE lower(email) = lower($1)`
	return r.scanOne(r.conn().QueryRowContext(ctx, query, email))
}

func (r *PGRepo) scanOne(row *sql.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}
