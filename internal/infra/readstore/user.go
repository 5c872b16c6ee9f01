package readstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"quotedesk/internal/infra"
	"quotedesk/internal/infra/db"
	"quotedesk/internal/usecase/queries"
)

type UserReadStore struct {
	dbtx db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{dbtx: dbtx}
}

var _ queries.UserReadStore = (*UserReadStore)(nil)

func (s *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error) {
	const query = `
		SELECT id, email, name, last_login, created_at
		FROM users
		WHERE id = $1
	`

	var view queries.UserView
	err := s.dbtx.QueryRow(ctx, query, id).Scan(
		&view.ID,
		&view.Email,
		&view.Name,
		&view.LastLogin,
		&view.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find user", err)
	}
	return &view, nil
}
