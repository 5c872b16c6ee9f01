//go:build unit

package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"quotedesk/internal/handler/api"
	reqdto "quotedesk/internal/handler/dto/request"
	"quotedesk/internal/handler/httperr"
	"quotedesk/internal/pkg/errs"
	"quotedesk/internal/usecase/queries"
)

type fakeResponseCommands struct {
	recordViewFn func(ctx context.Context, id uuid.UUID) (*queries.PublicQuotationView, error)
	respondFn    func(ctx context.Context, id uuid.UUID, req reqdto.RespondRequest, clientIP, userAgent string) error
}

func (f *fakeResponseCommands) RecordView(ctx context.Context, id uuid.UUID) (*queries.PublicQuotationView, error) {
	return f.recordViewFn(ctx, id)
}

func (f *fakeResponseCommands) Respond(ctx context.Context, id uuid.UUID, req reqdto.RespondRequest, clientIP, userAgent string) error {
	return f.respondFn(ctx, id, req, clientIP, userAgent)
}

type PublicHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	commands *fakeResponseCommands
}

func (s *PublicHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.commands = &fakeResponseCommands{}

	handler := api.NewPublicHandler(s.commands)
	s.router.GET("/quotations/:id/public", handler.View)
	s.router.POST("/quotations/:id/respond", handler.Respond)
}

func TestPublicHandlerSuite(t *testing.T) {
	suite.Run(t, new(PublicHandlerTestSuite))
}

func (s *PublicHandlerTestSuite) TestView() {
	id := uuid.New()

	s.Run("200 without exposing the admin", func() {
		s.commands.recordViewFn = func(_ context.Context, gotID uuid.UUID) (*queries.PublicQuotationView, error) {
			s.Equal(id, gotID)
			return &queries.PublicQuotationView{ID: gotID, ClientName: "Acme Corp", Status: "PENDING"}, nil
		}

		rec := performJSON(s.router, http.MethodGet, "/quotations/"+id.String()+"/public", nil)

		s.Equal(http.StatusOK, rec.Code)

		var raw map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &raw))
		s.NotContains(raw, "admin_id")
		s.NotContains(raw, "client_email")
	})

	s.Run("404 when absent", func() {
		s.commands.recordViewFn = func(context.Context, uuid.UUID) (*queries.PublicQuotationView, error) {
			return nil, errs.ErrQuotationNotFound
		}

		rec := performJSON(s.router, http.MethodGet, "/quotations/"+id.String()+"/public", nil)
		s.Equal(http.StatusNotFound, rec.Code)

		var body httperr.Response
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("Quotation not found", body.Error.Message)
	})
}

func (s *PublicHandlerTestSuite) TestRespond() {
	id := uuid.New()

	s.Run("200 records the decision", func() {
		s.commands.respondFn = func(_ context.Context, gotID uuid.UUID, req reqdto.RespondRequest, clientIP, userAgent string) error {
			s.Equal(id, gotID)
			s.Equal("APPROVED", req.Status)
			s.NotEmpty(clientIP)
			return nil
		}

		rec := performJSON(s.router, http.MethodPost, "/quotations/"+id.String()+"/respond", map[string]any{"status": "APPROVED"})
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("403 once a decision exists", func() {
		s.commands.respondFn = func(context.Context, uuid.UUID, reqdto.RespondRequest, string, string) error {
			return errs.ErrAlreadyResponded
		}

		rec := performJSON(s.router, http.MethodPost, "/quotations/"+id.String()+"/respond", map[string]any{"status": "REJECTED"})
		s.Equal(http.StatusForbidden, rec.Code)

		var body httperr.Response
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("Quotation has already been responded to", body.Error.Message)
	})

	s.Run("400 on a status outside the enum", func() {
		rec := performJSON(s.router, http.MethodPost, "/quotations/"+id.String()+"/respond", map[string]any{"status": "MAYBE"})
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
