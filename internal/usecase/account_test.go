package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	domainErrors "github.com/polkiloo/celestial/internal/domain/errors"
	pkgAuth "github.com/polkiloo/celestial/internal/pkg/auth"
	testhelpers "github.com/polkiloo/celestial/internal/test"
)

var fixedNow = time.Date(2024, time.May, 4, 10, 30, 0, 0, time.UTC)

func newAccountUseCase(repo *testhelpers.UserRepositoryStub, hasher testhelpers.HasherStub) *AccountUseCase {
	uc := NewAccountUseCase(repo, hasher, slog.New(slog.NewTextHandler(io.Discard, nil)))
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestAccountUseCaseSignupSuccess(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAccountUseCase(repo, testhelpers.HasherStub{})

	ctx := context.Background()
	user, err := uc.Signup(ctx, "Test User 1", "User1@Test.com", "password123")
	if err != nil {
		t.Fatalf("signup returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected user to have ID assigned")
	}
	if user.Email != "user1@test.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
	if !user.CreatedAt.Equal(fixedNow) || !user.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected timestamps: %v %v", user.CreatedAt, user.UpdatedAt)
	}
	if user.LastLogin != nil {
		t.Fatalf("expected no last login, got %v", user.LastLogin)
	}
	stored, err := repo.GetByEmail(ctx, "user1@test.com")
	if err != nil {
		t.Fatalf("expected user in repository: %v", err)
	}
	if stored.PasswordHash != "hash:password123" {
		t.Fatalf("password hash not stored: %v", stored.PasswordHash)
	}
}

func TestAccountUseCaseSignupDuplicate(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAccountUseCase(repo, testhelpers.HasherStub{})

	ctx := context.Background()
	if _, err := uc.Signup(ctx, "Bob", "bob@test.com", "secret1"); err != nil {
		t.Fatalf("unexpected error on first signup: %v", err)
	}
	if _, err := uc.Signup(ctx, "Bob", "BOB@test.com", "secret1"); err != domainErrors.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAccountUseCaseSignupValidation(t *testing.T) {
	uc := newAccountUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{
		HashFn: func(string) (string, error) {
			t.Fatal("hasher must not run for invalid input")
			return "", nil
		},
	})
	if _, err := uc.Signup(context.Background(), "", "a@b.co", "password"); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := uc.Signup(context.Background(), "User", "a@b.co", "12345"); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAccountUseCaseSignupPasswordBoundary(t *testing.T) {
	uc := newAccountUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{})
	if _, err := uc.Signup(context.Background(), "User", "six@test.com", "123456"); err != nil {
		t.Fatalf("expected six characters to be accepted, got %v", err)
	}
}

func TestAccountUseCaseSignupHasherError(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAccountUseCase(repo, testhelpers.HasherStub{HashFn: func(string) (string, error) {
		return "", fmt.Errorf("hash error")
	}})
	if _, err := uc.Signup(context.Background(), "User", "user@test.com", "password"); err == nil {
		t.Fatal("expected hashing error")
	}
}

func TestAccountUseCaseSignupRepositoryError(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	repo.Err = fmt.Errorf("db down")
	uc := newAccountUseCase(repo, testhelpers.HasherStub{})
	_, err := uc.Signup(context.Background(), "User", "user@test.com", "password")
	if err == nil || errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestAccountUseCaseConcurrentSignupSameEmail(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	var arrived sync.WaitGroup
	arrived.Add(2)
	repo.GetByEmailFn = func(context.Context, string) error {
		// Both requests pass the lookup before either inserts.
		arrived.Done()
		arrived.Wait()
		return domainErrors.ErrNotFound
	}
	uc := newAccountUseCase(repo, testhelpers.HasherStub{})

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Signup(context.Background(), "Racer", "race@test.com", "password")
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != 1 {
		t.Fatalf("expected one success and one duplicate, got %d/%d", ok, dup)
	}
}

func TestAccountUseCaseSignin(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAccountUseCase(repo, testhelpers.HasherStub{})

	ctx := context.Background()
	if _, err := uc.Signup(ctx, "Carol", "carol@test.com", "123456"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if _, err := uc.Signin(ctx, "carol@test.com", "wrongpassword"); err != domainErrors.ErrIncorrectPassword {
		t.Fatalf("expected incorrect password error, got %v", err)
	}

	user, err := uc.Signin(ctx, "CAROL@test.com", "123456")
	if err != nil {
		t.Fatalf("signin returned error: %v", err)
	}
	if user.Email != "carol@test.com" {
		t.Fatalf("unexpected email %q", user.Email)
	}
	if user.LastLogin == nil || !user.LastLogin.Equal(fixedNow) {
		t.Fatalf("expected last login to be stamped, got %v", user.LastLogin)
	}

	profile, err := uc.Profile(ctx, user.ID)
	if err != nil {
		t.Fatalf("profile returned error: %v", err)
	}
	if profile.LastLogin == nil {
		t.Fatal("expected stored last login")
	}
}

func TestAccountUseCaseSigninAccountNotFound(t *testing.T) {
	uc := newAccountUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{})
	if _, err := uc.Signin(context.Background(), "nonexistent@test.com", "anypassword"); err != domainErrors.ErrAccountNotFound {
		t.Fatalf("expected account not found, got %v", err)
	}
}

func TestAccountUseCaseSigninValidation(t *testing.T) {
	uc := newAccountUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{})
	if _, err := uc.Signin(context.Background(), "", "pass"); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := uc.Signin(context.Background(), "user@test.com", ""); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAccountUseCaseSigninMalformedHash(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAccountUseCase(repo, testhelpers.HasherStub{VerifyFn: func(string, string) (bool, error) {
		return false, domainErrors.ErrHashFormat
	}})
	if _, err := uc.Signup(context.Background(), "User", "user@test.com", "password"); err != nil {
		t.Fatalf("signup returned error: %v", err)
	}
	_, err := uc.Signin(context.Background(), "user@test.com", "password")
	if !errors.Is(err, domainErrors.ErrHashFormat) {
		t.Fatalf("expected hash format error, got %v", err)
	}
	if errors.Is(err, domainErrors.ErrIncorrectPassword) {
		t.Fatal("malformed hash must not look like a wrong password")
	}
}

func TestAccountUseCaseSigninLastLoginFailureIgnored(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAccountUseCase(repo, testhelpers.HasherStub{})
	if _, err := uc.Signup(context.Background(), "User", "user@test.com", "password"); err != nil {
		t.Fatalf("signup returned error: %v", err)
	}
	repo.UpdateLastLoginErr = fmt.Errorf("write timeout")

	user, err := uc.Signin(context.Background(), "user@test.com", "password")
	if err != nil {
		t.Fatalf("signin must succeed when last login update fails: %v", err)
	}
	if user.LastLogin != nil {
		t.Fatalf("expected last login to stay unset, got %v", user.LastLogin)
	}
	if repo.LastLoginCalls != 1 {
		t.Fatalf("expected one update attempt, got %d", repo.LastLoginCalls)
	}
}

func TestAccountUseCaseSigninRepositoryError(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	repo.Err = fmt.Errorf("storage unavailable")
	uc := newAccountUseCase(repo, testhelpers.HasherStub{})
	_, err := uc.Signin(context.Background(), "user@test.com", "pass")
	if err == nil || errors.Is(err, domainErrors.ErrAccountNotFound) {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestAccountUseCaseProfile(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAccountUseCase(repo, testhelpers.HasherStub{})

	if _, err := uc.Profile(context.Background(), "42"); err != domainErrors.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := uc.Profile(context.Background(), "not-an-id"); err != domainErrors.ErrInvalidIdentifier {
		t.Fatalf("expected invalid identifier, got %v", err)
	}
}

func TestNewAccountUseCaseDefaultLogger(t *testing.T) {
	uc := NewAccountUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, nil)
	if uc.logger == nil {
		t.Fatal("expected default logger")
	}
	now := uc.now()
	if now.Location() != time.UTC || now.Nanosecond()%int(time.Millisecond) != 0 {
		t.Fatalf("expected UTC millisecond timestamp, got %v", now)
	}
}

func TestAccountUseCaseEmailIsCaseInsensitive(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAccountUseCase(repo, testhelpers.HasherStub{})
	ctx := context.Background()

	email := testhelpers.RandomEmail()
	if _, err := uc.Signup(ctx, testhelpers.RandomName(3, 20), email, "password123"); err != nil {
		t.Fatalf("signup returned error: %v", err)
	}

	if _, err := uc.Signup(ctx, "Other", strings.ToUpper(email), "password123"); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected duplicate for differently cased email, got %v", err)
	}
	user, err := uc.Signin(ctx, strings.ToUpper(email), "password123")
	if err != nil {
		t.Fatalf("signin with upper-cased email failed: %v", err)
	}
	if user.Email != strings.ToLower(email) {
		t.Fatalf("expected stored email %q, got %q", strings.ToLower(email), user.Email)
	}
}

func TestAccountUseCaseLongPasswordRoundTrip(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAccountUseCase(repo, pkgAuth.NewBcryptHasher(bcrypt.MinCost), nil)
	ctx := context.Background()
	password := strings.Repeat("a", 80)

	if _, err := uc.Signup(ctx, "Test User", "long@test.com", password); err != nil {
		t.Fatalf("signup with 80-character password: %v", err)
	}
	user, err := uc.Signin(ctx, "long@test.com", password)
	if err != nil {
		t.Fatalf("signin with 80-character password: %v", err)
	}
	if user.Email != "long@test.com" {
		t.Fatalf("unexpected user %+v", user)
	}
}
