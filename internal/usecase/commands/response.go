package commands

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"quotedesk/internal/domain/quotation"
	reqdto "quotedesk/internal/handler/dto/request"
	"quotedesk/internal/infra"
	"quotedesk/internal/infra/mail"
	"quotedesk/internal/pkg/errs"
	"quotedesk/internal/usecase/queries"
	"quotedesk/internal/usecase/shared"
)

// ResponseCommands is the unauthenticated client-facing side of the
// workflow: the quotation id itself is the capability.
type ResponseCommands interface {
	RecordView(ctx context.Context, id uuid.UUID) (*queries.PublicQuotationView, error)
	Respond(ctx context.Context, id uuid.UUID, req reqdto.RespondRequest, clientIP, userAgent string) error
}

type responseCommandsImpl struct {
	uow       shared.UnitOfWork
	readStore queries.QuotationReadStore
}

func NewResponseCommands(uow shared.UnitOfWork, readStore queries.QuotationReadStore) ResponseCommands {
	return &responseCommandsImpl{uow: uow, readStore: readStore}
}

// RecordView loads the public projection and leaves a PENDING response row
// as the "viewed" marker in the audit trail. It never changes the
// quotation's status.
func (c *responseCommandsImpl) RecordView(ctx context.Context, id uuid.UUID) (*queries.PublicQuotationView, error) {
	view, err := c.readStore.FindPublicByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrQuotationNotFound)
		}
		return nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Responses().Insert(ctx, tx.DB(), shared.ResponseRecord{
			QuotationID: id,
			Status:      quotation.StatusPending,
		})
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

// Respond performs the one terminal transition a client gets. The
// conditional update on the respondable statuses is the sole
// synchronization point: when two clients race, exactly one sees a row
// affected and the other gets the already-responded failure.
func (c *responseCommandsImpl) Respond(ctx context.Context, id uuid.UUID, req reqdto.RespondRequest, clientIP, userAgent string) error {
	status, err := quotation.NewResponseStatus(req.Status)
	if err != nil {
		return err
	}

	snap, err := c.uow.CommandReads().QuotationByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrQuotationNotFound)
		}
		return err
	}

	admin, err := c.uow.CommandReads().UserByID(ctx, snap.AdminID)
	if err != nil {
		return err
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		transitioned, err := tx.Quotations().TransitionFromRespondable(ctx, tx.DB(), id, status)
		if err != nil {
			return err
		}
		if !transitioned {
			return errs.ErrAlreadyResponded
		}

		rec := shared.ResponseRecord{
			QuotationID: id,
			Status:      status,
			Comment:     trimmedOrNil(req.Comment),
			ClientIP:    nonEmptyPtr(clientIP),
			UserAgent:   nonEmptyPtr(userAgent),
		}
		if err := tx.Responses().Insert(ctx, tx.DB(), rec); err != nil {
			return err
		}

		payload, err := json.Marshal(map[string]any{
			"quotation_id": id,
			"client_name":  snap.ClientName,
			"status":       status.String(),
			"comment":      stringOrEmpty(req.Comment),
		})
		if err != nil {
			return errs.Wrap(err, "failed to encode notification payload")
		}
		return tx.MailJobs().Enqueue(ctx, tx.DB(), mail.KindQuotationResponse, admin.Email, payload)
	})
}

func trimmedOrNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func nonEmptyPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
