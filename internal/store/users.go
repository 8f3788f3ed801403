package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safar/petshop/internal/database"
	"github.com/safar/petshop/internal/models"
)

const userColumns = `id, email, password_hash, full_name, address, phone, role, created_at, updated_at, version`

func scanUser(row interface{ Scan(...interface{}) error }, user *models.User) error {
	return row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Address,
		&user.Phone,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Version,
	)
}

type CreateUserParams struct {
	Email        string
	PasswordHash string
	FullName     string
	Role         models.Role
}

func CreateUser(ctx context.Context, q database.Querier, p CreateUserParams) (*models.User, error) {
	user := &models.User{}

	query := `
		INSERT INTO users (email, password_hash, full_name, role, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, NOW(), NOW(), 1)
		RETURNING ` + userColumns

	err := scanUser(q.QueryRowContext(ctx, query, p.Email, p.PasswordHash, p.FullName, p.Role), user)
	if err != nil {
		if database.IsUniqueViolation(err, "users_email_key") {
			return nil, database.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func GetUserByEmail(ctx context.Context, q database.Querier, email string) (*models.User, error) {
	user := &models.User{}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	if err := scanUser(q.QueryRowContext(ctx, query, email), user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}

func EmailExists(ctx context.Context, q database.Querier, email string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

type UpdateProfileParams struct {
	Email    string
	FullName string
	Address  string
	Phone    string
}

func UpdateUserProfile(ctx context.Context, q database.Querier, id int64, p UpdateProfileParams) (*models.User, error) {
	user := &models.User{}

	query := `
		UPDATE users
		SET email = $1, full_name = $2, address = $3, phone = $4,
		    updated_at = NOW(), version = version + 1
		WHERE id = $5
		RETURNING ` + userColumns

	err := scanUser(q.QueryRowContext(ctx, query, p.Email, p.FullName, p.Address, p.Phone, id), user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrUserNotFound
		}
		if database.IsUniqueViolation(err, "users_email_key") {
			return nil, database.ErrEmailTaken
		}
		return nil, fmt.Errorf("update user profile: %w", err)
	}

	return user, nil
}

// SetUserCredentials overwrites the password hash and role of an existing user.
func SetUserCredentials(ctx context.Context, q database.Querier, id int64, passwordHash string, role models.Role) error {
	result, err := q.ExecContext(ctx,
		`UPDATE users
		 SET password_hash = $1, role = $2, updated_at = NOW(), version = version + 1
		 WHERE id = $3`,
		passwordHash, role, id)
	if err != nil {
		return fmt.Errorf("set user credentials: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrUserNotFound
	}

	return nil
}
