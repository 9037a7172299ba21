package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/caremeet/telehealth-api/internal/model"
	"github.com/caremeet/telehealth-api/internal/repository"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, username, email, password_hash, role, email_verified,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.EmailVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hash, role, email_verified,
			   created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var user model.User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hash, role, email_verified,
			   created_at, updated_at
		FROM users
		WHERE email = $1
	`
	var user model.User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// ChangePassword swaps the hash and revokes every live refresh token in a
// single transaction, so a stolen token cannot outlive a password reset.
func (r *userRepository) ChangePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3
		`, passwordHash, time.Now(), userID)
		if err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrNotFound
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE refresh_tokens SET revoked_at = $1
			WHERE user_id = $2 AND revoked_at IS NULL
		`, time.Now(), userID)
		if err != nil {
			return fmt.Errorf("failed to revoke refresh tokens: %w", err)
		}
		return nil
	})
}

// ResetPassword commits the hash update, the session revocation and the
// reset-token consumption together; a reset token is single-use.
func (r *userRepository) ResetPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3
		`, passwordHash, time.Now(), userID)
		if err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrNotFound
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE refresh_tokens SET revoked_at = $1
			WHERE user_id = $2 AND revoked_at IS NULL
		`, time.Now(), userID)
		if err != nil {
			return fmt.Errorf("failed to revoke refresh tokens: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM password_reset_tokens WHERE user_id = $1
		`, userID)
		if err != nil {
			return fmt.Errorf("failed to delete reset tokens: %w", err)
		}
		return nil
	})
}

func (r *userRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM refresh_tokens WHERE user_id = $1`,
			`DELETE FROM password_reset_tokens WHERE user_id = $1`,
			`DELETE FROM doctor_kyc WHERE user_id = $1`,
			`DELETE FROM patient_kyc WHERE user_id = $1`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, userID); err != nil {
				return fmt.Errorf("failed to delete user records: %w", err)
			}
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}
