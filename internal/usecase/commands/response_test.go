//go:build unit

package commands_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"quotedesk/internal/domain/quotation"
	"quotedesk/internal/handler/dto/request"
	"quotedesk/internal/infra/mail"
	"quotedesk/internal/pkg/errs"
	"quotedesk/internal/usecase/commands"
	"quotedesk/internal/usecase/queries"
	"quotedesk/internal/usecase/shared"
)

type ResponseCommandsTestSuite struct {
	suite.Suite
	uow       *fakeUoW
	readStore *fakeQuotationReadStore
	commands  commands.ResponseCommands
	adminID   uuid.UUID
}

func (s *ResponseCommandsTestSuite) SetupTest() {
	s.uow = newFakeUoW()
	s.readStore = &fakeQuotationReadStore{publicViews: map[uuid.UUID]*queries.PublicQuotationView{}}
	s.commands = commands.NewResponseCommands(s.uow, s.readStore)
	s.adminID = uuid.New()

	s.uow.reads.addUser(&shared.CredentialSnapshot{
		ID:    s.adminID,
		Email: "admin@example.com",
		Name:  "Admin",
	})
}

func TestResponseCommandsSuite(t *testing.T) {
	suite.Run(t, new(ResponseCommandsTestSuite))
}

func (s *ResponseCommandsTestSuite) seedQuotation(status quotation.Status) uuid.UUID {
	id := uuid.New()
	s.uow.reads.quotations[id] = &shared.QuotationSnapshot{
		ID:          id,
		AdminID:     s.adminID,
		ClientName:  "Acme Corp",
		ClientEmail: "billing@acme.example",
		Status:      status,
		TotalAmount: decimal.RequireFromString("100.00"),
	}
	s.readStore.publicViews[id] = &queries.PublicQuotationView{
		ID:          id,
		ClientName:  "Acme Corp",
		Status:      status.String(),
		TotalAmount: "100.00",
	}
	return id
}

func (s *ResponseCommandsTestSuite) TestRecordView() {
	s.Run("returns the public view and inserts a viewed marker", func() {
		id := s.seedQuotation(quotation.StatusPending)

		view, err := s.commands.RecordView(context.Background(), id)

		s.Require().NoError(err)
		s.Equal("Acme Corp", view.ClientName)

		s.Require().Len(s.uow.tx.responses.inserted, 1)
		s.Equal(quotation.StatusPending, s.uow.tx.responses.inserted[0].Status)
		s.Equal(id, s.uow.tx.responses.inserted[0].QuotationID)
	})

	s.Run("unknown quotation maps to not found", func() {
		_, err := s.commands.RecordView(context.Background(), uuid.New())
		s.Require().ErrorIs(err, errs.ErrQuotationNotFound)
	})
}

func (s *ResponseCommandsTestSuite) TestRespond() {
	comment := "looks good"

	s.Run("approves, records the response and notifies the admin", func() {
		id := s.seedQuotation(quotation.StatusPending)

		err := s.commands.Respond(context.Background(), id, request.RespondRequest{
			Status:  "APPROVED",
			Comment: &comment,
		}, "203.0.113.9", "test-agent")

		s.Require().NoError(err)

		s.Require().Len(s.uow.tx.quotations.transitions, 1)
		s.Equal(quotation.StatusApproved, s.uow.tx.quotations.transitions[0])

		s.Require().Len(s.uow.tx.responses.inserted, 1)
		rec := s.uow.tx.responses.inserted[0]
		s.Equal(quotation.StatusApproved, rec.Status)
		s.Equal(&comment, rec.Comment)
		s.Require().NotNil(rec.ClientIP)
		s.Equal("203.0.113.9", *rec.ClientIP)

		s.Require().Len(s.uow.tx.mailJobs.jobs, 1)
		s.Equal(mail.KindQuotationResponse, s.uow.tx.mailJobs.jobs[0].kind)
		s.Equal("admin@example.com", s.uow.tx.mailJobs.jobs[0].recipient)
	})

	s.Run("losing the conditional update yields already-responded", func() {
		id := s.seedQuotation(quotation.StatusPending)
		s.uow.tx.quotations.transitionOK = false

		err := s.commands.Respond(context.Background(), id, request.RespondRequest{Status: "REJECTED"}, "", "")

		s.Require().ErrorIs(err, errs.ErrAlreadyResponded)
		s.Empty(s.uow.tx.responses.inserted)
		s.Empty(s.uow.tx.mailJobs.jobs)
	})

	s.Run("only APPROVED or REJECTED are accepted", func() {
		id := s.seedQuotation(quotation.StatusPending)

		err := s.commands.Respond(context.Background(), id, request.RespondRequest{Status: "EXPIRED"}, "", "")
		s.Require().ErrorIs(err, quotation.ErrInvalidResponseStatus)
	})

	s.Run("unknown quotation maps to not found", func() {
		err := s.commands.Respond(context.Background(), uuid.New(), request.RespondRequest{Status: "APPROVED"}, "", "")
		s.Require().ErrorIs(err, errs.ErrQuotationNotFound)
	})
}
