package auth

import (
	"context"
	"errors"
	"log"
	"time"

	"backend-howmanybeds/internal/db"
	"backend-howmanybeds/internal/session"
	"backend-howmanybeds/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type Service struct {
	secret   []byte
	db       db.Querier
	profiles *user.Service
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func NewService(secret string, database db.Querier, profiles *user.Service) *Service {
	return &Service{
		secret:   []byte(secret),
		db:       database,
		profiles: profiles,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (Account, TokenResponse, error) {
	if req.Email == "" || req.Password == "" {
		return Account{}, TokenResponse{}, errors.New("email and password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, TokenResponse{}, err
	}

	account := Account{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO accounts (id, email, password_hash)
		VALUES ($1,$2,$3)
		RETURNING created_at
	`, account.ID, account.Email, account.PasswordHash)
	if err := row.Scan(&account.CreatedAt); err != nil {
		return Account{}, TokenResponse{}, err
	}

	s.touchProfile(ctx, account.ID, account.Email)

	tokens, err := s.GenerateTokens(ctx, account.ID, account.Email)
	if err != nil {
		return Account{}, TokenResponse{}, err
	}
	return account, tokens, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (Account, TokenResponse, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at
		FROM accounts WHERE email = $1
	`, req.Email)

	var account Account
	if err := row.Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt); err != nil {
		return Account{}, TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return Account{}, TokenResponse{}, errors.New("invalid credentials")
	}

	s.touchProfile(ctx, account.ID, account.Email)

	tokens, err := s.GenerateTokens(ctx, account.ID, account.Email)
	if err != nil {
		return Account{}, TokenResponse{}, err
	}
	return account, tokens, nil
}

// touchProfile runs the sign-in side effect on users/{uid}: lastSignedIn
// now, current email. Failures are logged, never fatal to the sign-in.
func (s *Service) touchProfile(ctx context.Context, uid, email string) {
	if s.profiles == nil {
		return
	}
	if err := s.profiles.Touch(ctx, uid, email); err != nil {
		log.Printf("auth: profile upsert %s: %v", uid, err)
	}
}

func (s *Service) GenerateTokens(ctx context.Context, userID, email string) (TokenResponse, error) {
	access, err := s.signToken(userID, email, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	refresh, err := s.signToken(userID, email, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	if err := s.saveRefreshToken(ctx, refresh, userID, refreshTokenTTL); err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) ValidateRefreshToken(ctx context.Context, token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}

	userID, expiresAt, err := s.lookupRefreshToken(ctx, token)
	if err != nil || userID != claims.UserID || time.Now().After(expiresAt) {
		return "", errors.New("refresh token invalid")
	}
	return claims.UserID, nil
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// IdentityFromToken resolves a bearer token to the session identity the
// state holder consumes, or an error when the token does not verify.
func (s *Service) IdentityFromToken(token string) (*session.Identity, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}
	return &session.Identity{UID: claims.UserID, Email: claims.Email}, nil
}

// SignOut revokes a refresh token so it can no longer mint access tokens.
func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = now() WHERE token = $1
	`, refreshToken)
	return err
}

func (s *Service) signToken(userID, email string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

func (s *Service) saveRefreshToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at)
		VALUES ($1,$2,$3,$4)
	`, uuid.NewString(), userID, token, time.Now().Add(ttl))
	return err
}

func (s *Service) lookupRefreshToken(ctx context.Context, token string) (string, time.Time, error) {
	row := s.db.QueryRow(ctx, `
		SELECT user_id, expires_at
		FROM refresh_tokens
		WHERE token = $1 AND revoked_at IS NULL
	`, token)
	var userID string
	var expiresAt time.Time
	if err := row.Scan(&userID, &expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return userID, expiresAt, nil
}
