package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/celestial/internal/domain/errors"
	"github.com/polkiloo/celestial/internal/domain/model"
	"github.com/polkiloo/celestial/internal/domain/repository"
	pkgAuth "github.com/polkiloo/celestial/internal/pkg/auth"
)

// AccountUseCase handles account creation, credential checks and profile lookups.
type AccountUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	logger *slog.Logger
	now    func() time.Time
}

// NewAccountUseCase constructs AccountUseCase.
func NewAccountUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, logger *slog.Logger) *AccountUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountUseCase{
		users:  users,
		hasher: hasher,
		logger: logger,
		now:    defaultNow,
	}
}

func defaultNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Signup validates input, rejects taken emails and stores a new account.
func (u *AccountUseCase) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	if err := ValidateSignup(name, email, password); err != nil {
		return nil, err
	}
	email = strings.ToLower(email)

	_, err := u.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domainErrors.ErrAlreadyExists
	case !errors.Is(err, domainErrors.ErrNotFound):
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := u.now()
	usr, err := u.users.Create(ctx, &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// The unique index catches a concurrent signup that passed the lookup above.
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return usr, nil
}

// Signin verifies credentials and stamps the last login time.
func (u *AccountUseCase) Signin(ctx context.Context, email, password string) (*model.User, error) {
	if err := ValidateSignin(email, password); err != nil {
		return nil, err
	}
	email = strings.ToLower(email)

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	ok, err := u.hasher.Verify(usr.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainErrors.ErrIncorrectPassword
	}

	at := u.now()
	if err := u.users.UpdateLastLogin(ctx, usr.ID, at); err != nil {
		u.logger.Warn("update last login failed", slog.String("user_id", usr.ID), slog.Any("error", err))
	} else {
		usr.LastLogin = &at
	}
	return usr, nil
}

// Profile fetches an account by identifier.
func (u *AccountUseCase) Profile(ctx context.Context, id string) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}
