package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"quotedesk/internal/domain/quotation"
	"quotedesk/internal/domain/user"
	reqdto "quotedesk/internal/handler/dto/request"
	"quotedesk/internal/infra"
	"quotedesk/internal/infra/mail"
	"quotedesk/internal/pkg/errs"
	"quotedesk/internal/usecase/queries"
	"quotedesk/internal/usecase/shared"
)

// Audit actions recorded for admin-side mutations.
const (
	AuditActionCreated = "CREATED"
	AuditActionUpdated = "UPDATED"
	AuditActionDeleted = "DELETED"
	AuditActionSent    = "SENT"
)

type QuotationCommands interface {
	Create(ctx context.Context, req reqdto.CreateQuotationRequest, adminID uuid.UUID) (*queries.QuotationView, error)
	Update(ctx context.Context, id uuid.UUID, req reqdto.UpdateQuotationRequest, adminID uuid.UUID) (*queries.QuotationView, error)
	Remove(ctx context.Context, id, adminID uuid.UUID) error
	SendEmail(ctx context.Context, id, adminID uuid.UUID) error
}

type quotationCommandsImpl struct {
	uow       shared.UnitOfWork
	readStore queries.QuotationReadStore
}

func NewQuotationCommands(uow shared.UnitOfWork, readStore queries.QuotationReadStore) QuotationCommands {
	return &quotationCommandsImpl{uow: uow, readStore: readStore}
}

func (c *quotationCommandsImpl) Create(ctx context.Context, req reqdto.CreateQuotationRequest, adminID uuid.UUID) (*queries.QuotationView, error) {
	clientEmail, err := user.NewEmail(req.ClientEmail)
	if err != nil {
		return nil, err
	}

	specs, err := req.ItemSpecs()
	if err != nil {
		return nil, err
	}

	entity, err := quotation.NewQuotation(adminID, req.ClientName, clientEmail, req.ValidityDate, specs)
	if err != nil {
		return nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Quotations().Create(ctx, tx.DB(), entity); err != nil {
			return err
		}

		audit := shared.AuditEntry{
			AdminID:     adminID,
			QuotationID: entity.ID(),
			Action:      AuditActionCreated,
			Details:     fmt.Sprintf("quotation for %s, total %s", entity.ClientName(), quotation.FormatAmount(entity.TotalAmount())),
		}
		if err := tx.AuditLogs().Insert(ctx, tx.DB(), audit); err != nil {
			return err
		}

		return enqueueQuotationReady(ctx, tx, entity.ID(), entity.ClientName(), entity.ClientEmail().Value(), quotation.FormatAmount(entity.TotalAmount()))
	})
	if err != nil {
		return nil, err
	}

	return c.readStore.FindByID(ctx, entity.ID())
}

func (c *quotationCommandsImpl) Update(ctx context.Context, id uuid.UUID, req reqdto.UpdateQuotationRequest, adminID uuid.UUID) (*queries.QuotationView, error) {
	if _, err := c.ownedSnapshot(ctx, id, adminID); err != nil {
		return nil, err
	}

	specs, err := req.ItemSpecs()
	if err != nil {
		return nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if specs != nil {
			priced, total, err := quotation.PriceItems(specs)
			if err != nil {
				return err
			}
			if err := tx.Quotations().ReplaceItems(ctx, tx.DB(), id, priced, total); err != nil {
				return err
			}
		}

		if req.ValidityDate != nil {
			if err := tx.Quotations().UpdateValidityDate(ctx, tx.DB(), id, req.ValidityDate); err != nil {
				return err
			}
		}

		audit := shared.AuditEntry{
			AdminID:     adminID,
			QuotationID: id,
			Action:      AuditActionUpdated,
			Details:     updateDetails(specs != nil, req.ValidityDate != nil),
		}
		return tx.AuditLogs().Insert(ctx, tx.DB(), audit)
	})
	if err != nil {
		return nil, err
	}

	return c.readStore.FindByID(ctx, id)
}

func (c *quotationCommandsImpl) Remove(ctx context.Context, id, adminID uuid.UUID) error {
	snap, err := c.ownedSnapshot(ctx, id, adminID)
	if err != nil {
		return err
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Audit first: the FK is set null on delete while the textual
		// reference column keeps the id for the trail.
		audit := shared.AuditEntry{
			AdminID:     adminID,
			QuotationID: id,
			Action:      AuditActionDeleted,
			Details:     fmt.Sprintf("quotation for %s deleted", snap.ClientName),
		}
		if err := tx.AuditLogs().Insert(ctx, tx.DB(), audit); err != nil {
			return err
		}
		return tx.Quotations().Delete(ctx, tx.DB(), id)
	})
}

// SendEmail re-enqueues the client-facing quotation mail and is the only
// producer of the SENT status.
func (c *quotationCommandsImpl) SendEmail(ctx context.Context, id, adminID uuid.UUID) error {
	snap, err := c.ownedSnapshot(ctx, id, adminID)
	if err != nil {
		return err
	}

	if !snap.Status.IsRespondable() {
		return errs.ErrAlreadyResponded
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// PENDING flips to SENT; an already-SENT quotation just gets the
		// mail again.
		if _, err := tx.Quotations().MarkSent(ctx, tx.DB(), id); err != nil {
			return err
		}

		audit := shared.AuditEntry{
			AdminID:     adminID,
			QuotationID: id,
			Action:      AuditActionSent,
			Details:     fmt.Sprintf("quotation emailed to %s", snap.ClientEmail),
		}
		if err := tx.AuditLogs().Insert(ctx, tx.DB(), audit); err != nil {
			return err
		}

		return enqueueQuotationReady(ctx, tx, id, snap.ClientName, snap.ClientEmail, quotation.FormatAmount(snap.TotalAmount))
	})
}

func (c *quotationCommandsImpl) ownedSnapshot(ctx context.Context, id, adminID uuid.UUID) (*shared.QuotationSnapshot, error) {
	snap, err := c.uow.CommandReads().QuotationByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrQuotationNotFound)
		}
		return nil, err
	}
	if snap.AdminID != adminID {
		return nil, errs.ErrQuotationAccessDenied
	}
	return snap, nil
}

func enqueueQuotationReady(ctx context.Context, tx shared.Tx, id uuid.UUID, clientName, clientEmail, total string) error {
	payload, err := json.Marshal(map[string]any{
		"quotation_id": id,
		"client_name":  clientName,
		"total_amount": total,
	})
	if err != nil {
		return errs.Wrap(err, "failed to encode quotation mail payload")
	}
	return tx.MailJobs().Enqueue(ctx, tx.DB(), mail.KindQuotationReady, clientEmail, payload)
}

func updateDetails(itemsReplaced, validityChanged bool) string {
	switch {
	case itemsReplaced && validityChanged:
		return "items replaced, validity date changed"
	case itemsReplaced:
		return "items replaced"
	case validityChanged:
		return "validity date changed"
	default:
		return "no fields changed"
	}
}
