package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"quotedesk/internal/domain/quotation"
	"quotedesk/internal/infra"
	"quotedesk/internal/infra/db"
	"quotedesk/internal/usecase/shared"
)

type CommandReads struct {
	dbtx db.DBTX
}

func NewCommandReads(dbtx db.DBTX) *CommandReads {
	return &CommandReads{dbtx: dbtx}
}

var _ shared.CommandReads = (*CommandReads)(nil)

func (c *CommandReads) QuotationByID(ctx context.Context, id uuid.UUID) (*shared.QuotationSnapshot, error) {
	const query = `
		SELECT id, admin_id, client_name, client_email, status, total_amount, validity_date
		FROM quotations
		WHERE id = $1
	`

	var snap shared.QuotationSnapshot
	var status string
	err := c.dbtx.QueryRow(ctx, query, id).Scan(
		&snap.ID,
		&snap.AdminID,
		&snap.ClientName,
		&snap.ClientEmail,
		&status,
		&snap.TotalAmount,
		&snap.ValidityDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, infra.WrapRepoErr("quotation not found", err, infra.KindNotFound)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load quotation snapshot", err)
	}

	snap.Status = quotation.Status(status)
	return &snap, nil
}

func (c *CommandReads) UserByEmail(ctx context.Context, email string) (*shared.CredentialSnapshot, error) {
	const query = `
		SELECT id, email, name, password_hash, refresh_token, reset_token
		FROM users
		WHERE email = $1
	`

	return c.scanCredential(c.dbtx.QueryRow(ctx, query, email))
}

func (c *CommandReads) UserByID(ctx context.Context, id uuid.UUID) (*shared.CredentialSnapshot, error) {
	const query = `
		SELECT id, email, name, password_hash, refresh_token, reset_token
		FROM users
		WHERE id = $1
	`

	return c.scanCredential(c.dbtx.QueryRow(ctx, query, id))
}

func (c *CommandReads) scanCredential(row pgx.Row) (*shared.CredentialSnapshot, error) {
	var snap shared.CredentialSnapshot
	err := row.Scan(
		&snap.ID,
		&snap.Email,
		&snap.Name,
		&snap.PasswordHash,
		&snap.RefreshToken,
		&snap.ResetToken,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load credential snapshot", err)
	}
	return &snap, nil
}
