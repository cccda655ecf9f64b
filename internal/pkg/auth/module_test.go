package auth

import (
	"testing"

	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"
)

func TestNewPasswordHasher(t *testing.T) {
	hasher := newPasswordHasher()
	bcryptHasher, ok := hasher.(*BcryptHasher)
	if !ok {
		t.Fatalf("expected *BcryptHasher, got %T", hasher)
	}
	if bcryptHasher.cost != bcrypt.DefaultCost {
		t.Fatalf("unexpected cost: %d", bcryptHasher.cost)
	}
}

func TestModuleProvidesHasher(t *testing.T) {
	var hasher PasswordHasher
	app := fx.New(fx.NopLogger, Module, fx.Populate(&hasher))
	if err := app.Err(); err != nil {
		t.Fatalf("fx graph: %v", err)
	}
	if hasher == nil {
		t.Fatal("expected hasher to be provided")
	}
}
