package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"quotedesk/internal/domain/user"
	"quotedesk/internal/infra"
	"quotedesk/internal/infra/db"
	"quotedesk/internal/usecase/shared"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

var _ shared.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, dbtx db.DBTX, u *user.User) error {
	const query = `
		INSERT INTO users (id, email, password_hash, name)
		VALUES ($1, $2, $3, $4)
	`

	_, err := dbtx.Exec(ctx, query, u.ID(), u.Email().Value(), u.PasswordHash(), u.Name())
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("email already registered", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) StoreRefreshToken(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, refreshToken string, lastLogin time.Time) error {
	const query = `
		UPDATE users
		SET refresh_token = $2, last_login = $3, updated_at = now()
		WHERE id = $1
	`

	tag, err := dbtx.Exec(ctx, query, userID, refreshToken, lastLogin)
	if err != nil {
		return infra.WrapRepoErr("failed to store refresh token", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *UserRepository) ClearRefreshToken(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) error {
	const query = `
		UPDATE users
		SET refresh_token = NULL, updated_at = now()
		WHERE id = $1
	`

	if _, err := dbtx.Exec(ctx, query, userID); err != nil {
		return infra.WrapRepoErr("failed to clear refresh token", err)
	}
	return nil
}

func (r *UserRepository) StoreResetToken(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, resetToken string) error {
	const query = `
		UPDATE users
		SET reset_token = $2, updated_at = now()
		WHERE id = $1
	`

	tag, err := dbtx.Exec(ctx, query, userID, resetToken)
	if err != nil {
		return infra.WrapRepoErr("failed to store reset token", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, passwordHash string) error {
	const query = `
		UPDATE users
		SET password_hash = $2, updated_at = now()
		WHERE id = $1
	`

	tag, err := dbtx.Exec(ctx, query, userID, passwordHash)
	if err != nil {
		return infra.WrapRepoErr("failed to update password", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

// RedeemResetToken is conditional on the stored token still matching, so a
// reset link works exactly once even under concurrent attempts.
func (r *UserRepository) RedeemResetToken(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, passwordHash, expectToken string) (bool, error) {
	const query = `
		UPDATE users
		SET password_hash = $2, reset_token = NULL, updated_at = now()
		WHERE id = $1 AND reset_token = $3
	`

	tag, err := dbtx.Exec(ctx, query, userID, passwordHash, expectToken)
	if err != nil {
		return false, infra.WrapRepoErr("failed to redeem reset token", err)
	}
	return tag.RowsAffected() > 0, nil
}
