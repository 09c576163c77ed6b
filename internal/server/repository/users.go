// Package repository реализует хранилище аккаунтов пользователей.
//
// Две реализации service.UsersRepo:
//   - UsersRepository: PostgreSQL (pgx), уникальность email через UNIQUE;
//   - UsersMongoRepository: MongoDB, уникальность email через unique-индекс.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-webchat/internal/shared/errors"
)

// pgUniqueViolation: код ошибки PostgreSQL при нарушении UNIQUE.
const pgUniqueViolation = "23505"

type UsersRepository struct {
	db      *sql.DB
	timeout time.Duration
}

// NewUsersRepository создаёт репозиторий; timeout > 0 ограничивает каждый запрос.
func NewUsersRepository(db *sql.DB, timeout time.Duration) *UsersRepository {
	return &UsersRepository{db: db, timeout: timeout}
}

func (r *UsersRepository) Create(ctx context.Context, email, passwordHash string) (models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	u := models.User{Email: email, PasswordHash: passwordHash}
	var id uuid.UUID

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash)
		 VALUES ($1,$2)
		 RETURNING id, created_at`,
		email, passwordHash,
	).Scan(&id, &u.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return models.User{}, serr.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("%w: %v", serr.ErrInternal, err)
	}

	u.ID = id.String()
	return u, nil
}

func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email=$1`,
		email,
	))
}

func (r *UsersRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return models.User{}, serr.ErrNotFound
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE id=$1`,
		uid,
	))
}

// Ping: для health-check.
func (r *UsersRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *UsersRepository) scanOne(row *sql.Row) (models.User, error) {
	var (
		u  models.User
		id uuid.UUID
	)
	if err := row.Scan(&id, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, serr.ErrNotFound
		}
		return models.User{}, fmt.Errorf("%w: %v", serr.ErrInternal, err)
	}
	u.ID = id.String()
	return u, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
