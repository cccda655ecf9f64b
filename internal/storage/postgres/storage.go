package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/celestial/internal/domain/errors"
	"github.com/polkiloo/celestial/internal/domain/model"
	"github.com/polkiloo/celestial/internal/domain/repository"
	"github.com/polkiloo/celestial/internal/pkg/lazy"
)

const uniqueViolation = "23505"

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL. The pool is opened
// on first use and shared by every caller afterwards.
type Storage struct {
	cfg            *pgxpool.Config
	connectTimeout time.Duration
	pool           *lazy.Value[pgxPool]
	logger         *slog.Logger
}

type userRepository struct {
	storage *Storage
}

// New validates the DSN and prepares a storage whose pool is opened lazily.
func New(dsn string, connectTimeout time.Duration, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	storage := &Storage{cfg: cfg, connectTimeout: connectTimeout, logger: logger}
	storage.pool = lazy.NewWithRelease(storage.connect, func(pool pgxPool) { pool.Close() })
	return storage, nil
}

func (s *Storage) connect(ctx context.Context) (pgxPool, error) {
	if s.connectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.connectTimeout)
		defer cancel()
	}

	pool, err := newPgxPool(ctx, s.cfg.Copy())
	if err != nil {
		return nil, fmt.Errorf("%w: connect db: %v", domainErrors.ErrStoreUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping db: %v", domainErrors.ErrStoreUnavailable, err)
	}
	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrStoreUnavailable, err)
	}

	s.logger.Info("postgres connected", slog.String("host", s.cfg.ConnConfig.Host))
	return pool, nil
}

// Initialize opens the pool and ensures the schema. It is safe to call repeatedly.
func (s *Storage) Initialize(ctx context.Context) error {
	_, err := s.pool.Get(ctx)
	return err
}

// Close releases database resources.
func (s *Storage) Close(context.Context) error {
	if pool, ok := s.pool.Reset(); ok {
		pool.Close()
	}
	return nil
}

// Users returns the account repository.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func initSchema(ctx context.Context, pool pgxPool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL,
            last_login TIMESTAMPTZ
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (lower(email))`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

const userColumns = `id::text, name, email, password_hash, created_at, updated_at, last_login`

func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	pool, err := r.storage.pool.Get(ctx)
	if err != nil {
		return nil, err
	}

	const query = `INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)`
	id := uuid.New()
	if _, err := pool.Exec(ctx, query, id, user.Name, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = id.String()
	return &created, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email)=$1`, email)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, domainErrors.ErrInvalidIdentifier
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, parsed)
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return domainErrors.ErrInvalidIdentifier
	}
	pool, err := r.storage.pool.Get(ctx)
	if err != nil {
		return err
	}

	const query = `UPDATE users SET last_login=$2 WHERE id=$1`
	tag, err := pool.Exec(ctx, query, parsed, at)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	pool, err := r.storage.pool.Get(ctx)
	if err != nil {
		return nil, err
	}

	var (
		u         model.User
		lastLogin *time.Time
	)
	err = pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt, &lastLogin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	u.LastLogin = lastLogin
	return &u, nil
}

// HealthCheck verifies database connectivity, opening the pool when needed.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	pool, err := s.pool.Get(ctx)
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}
