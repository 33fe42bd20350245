package auth

import (
	"context"
	"testing"
	"time"

	"backend-howmanybeds/internal/store"
	"backend-howmanybeds/internal/user"

	"github.com/pashagolub/pgxmock/v3"
)

func newMockService(t *testing.T) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	profiles := user.NewService(store.New(mock, nil))
	return NewService("test-secret", mock, profiles), mock
}

func expectProfileTouch(mock pgxmock.PgxPoolIface) {
	mock.ExpectExec(`UPDATE records SET data = data`).
		WithArgs("users", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
}

func TestRegisterAndLogin(t *testing.T) {
	svc, mock := newMockService(t)

	createdAt := time.Now().Add(-time.Minute)

	mock.ExpectQuery(`INSERT INTO accounts`).
		WithArgs(pgxmock.AnyArg(), "user@example.com", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))
	expectProfileTouch(mock)
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	account, tokens, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if account.ID == "" || tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("expected account and tokens")
	}

	mock.ExpectQuery(`SELECT id, email, password_hash, created_at`).
		WithArgs("user@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow(account.ID, account.Email, account.PasswordHash, createdAt))
	expectProfileTouch(mock)
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(pgxmock.AnyArg(), account.ID, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	_, loginTokens, err := svc.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loginTokens.AccessToken == "" || loginTokens.RefreshToken == "" {
		t.Fatalf("expected login tokens")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc, _ := newMockService(t)

	_, _, err := svc.Register(context.Background(), RegisterRequest{Email: "", Password: "p"})
	if err == nil {
		t.Fatalf("expected error for missing email")
	}
	_, _, err = svc.Register(context.Background(), RegisterRequest{Email: "a@b.c", Password: ""})
	if err == nil {
		t.Fatalf("expected error for missing password")
	}
}

func TestLoginInvalidPassword(t *testing.T) {
	svc, mock := newMockService(t)

	other, tokens, err := func() (Account, TokenResponse, error) {
		mock.ExpectQuery(`INSERT INTO accounts`).
			WithArgs(pgxmock.AnyArg(), "user@example.com", pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
		expectProfileTouch(mock)
		mock.ExpectExec(`INSERT INTO refresh_tokens`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		return svc.Register(context.Background(), RegisterRequest{Email: "user@example.com", Password: "right"})
	}()
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	_ = tokens

	mock.ExpectQuery(`SELECT id, email, password_hash, created_at`).
		WithArgs("user@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow(other.ID, other.Email, other.PasswordHash, time.Now()))

	_, _, err = svc.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "wrong"})
	if err == nil {
		t.Fatalf("expected invalid credentials")
	}
}

func TestValidateRefreshToken(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(pgxmock.AnyArg(), "user-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tokens, err := svc.GenerateTokens(context.Background(), "user-1", "u1@example.com")
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}

	mock.ExpectQuery(`SELECT user_id, expires_at`).
		WithArgs(tokens.RefreshToken).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "expires_at"}).
			AddRow("user-1", time.Now().Add(5*time.Minute)))

	userID, err := svc.ValidateRefreshToken(context.Background(), tokens.RefreshToken)
	if err != nil {
		t.Fatalf("validate refresh: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("unexpected user_id: %s", userID)
	}
}

func TestIdentityFromToken(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(pgxmock.AnyArg(), "user-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tokens, err := svc.GenerateTokens(context.Background(), "user-1", "u1@example.com")
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}

	identity, err := svc.IdentityFromToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("identity from token: %v", err)
	}
	if identity.UID != "user-1" || identity.Email != "u1@example.com" {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	if _, err := svc.IdentityFromToken("garbage"); err == nil {
		t.Fatalf("expected error for garbage token")
	}
}

func TestSignOutRevokesRefreshToken(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at`).
		WithArgs("some-token").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := svc.SignOut(context.Background(), "some-token"); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
