package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/safar/petshop/internal/auth"
	"github.com/safar/petshop/internal/database"
	"github.com/safar/petshop/internal/logger"
	"github.com/safar/petshop/internal/models"
	"github.com/safar/petshop/internal/store"
)

const minPasswordLength = 6

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	Role  models.Role `json:"role"`
}

type AuthService struct {
	db      *sql.DB
	tokens  *auth.TokenIssuer
	revoker auth.Revoker
	log     *logger.Logger
}

func NewAuthService(db *sql.DB, tokens *auth.TokenIssuer, revoker auth.Revoker, log *logger.Logger) *AuthService {
	if revoker == nil {
		revoker = auth.NopRevoker{}
	}
	return &AuthService{db: db, tokens: tokens, revoker: revoker, log: log.With("service", "AuthService")}
}

// Register creates a USER account and signs the caller in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, invalidInput("email is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, invalidInput("password must be at least %d characters", minPasswordLength)
	}

	taken, err := store.EmailExists(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, database.ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := store.CreateUser(ctx, s.db, store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.Name),
		Role:         models.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", user.ID, "email", user.Email)
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := store.GetUserByEmail(ctx, s.db, normalizeEmail(req.Email))
	if errors.Is(err, database.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.Warn("login rejected", "email", user.Email)
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResponse, error) {
	token, err := s.tokens.Issue(user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, Role: user.Role}, nil
}

// Authenticate validates a bearer token and rejects tokens revoked by Logout.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", ErrUnauthenticated)
	}

	return claims, nil
}

// Logout revokes the token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return ErrUnauthenticated
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}
	s.log.Info("user logged out", "email", claims.Subject)
	return nil
}

// EnsureAdmin creates the ADMIN account or resets its password and role.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return invalidInput("admin email and password are required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	return database.WithTransaction(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		user, err := store.GetUserByEmail(ctx, tx, email)
		if errors.Is(err, database.ErrUserNotFound) {
			created, err := store.CreateUser(ctx, tx, store.CreateUserParams{
				Email:        email,
				PasswordHash: hash,
				FullName:     "Administrator",
				Role:         models.RoleAdmin,
			})
			if err != nil {
				return err
			}
			s.log.Info("admin account created", "user_id", created.ID, "email", email)
			return nil
		}
		if err != nil {
			return err
		}

		if err := store.SetUserCredentials(ctx, tx, user.ID, hash, models.RoleAdmin); err != nil {
			return err
		}
		s.log.Info("admin account refreshed", "user_id", user.ID, "email", email)
		return nil
	})
}
