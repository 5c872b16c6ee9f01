package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	reqdto "quotedesk/internal/handler/dto/request"
	"quotedesk/internal/handler/httperr"
	"quotedesk/internal/pkg/errs"
	"quotedesk/internal/usecase/commands"
)

// PublicHandler serves the unauthenticated client-facing endpoints. The
// quotation id in the URL is the only credential.
type PublicHandler struct {
	responseCommands commands.ResponseCommands
}

func NewPublicHandler(responseCommands commands.ResponseCommands) *PublicHandler {
	return &PublicHandler{responseCommands: responseCommands}
}

// @Summary View a quotation through its public link
// @Tags public
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} resdto.PublicQuotationResponse
// @Failure 404 {object} httperr.Response
// @Router /quotations/{id}/public [get]
func (h *PublicHandler) View(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := h.responseCommands.RecordView(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrQuotationNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Quotation not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Approve or reject a quotation
// @Tags public
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body reqdto.RespondRequest true "Response"
// @Success 200 {object} resdto.MessageResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /quotations/{id}/respond [post]
func (h *PublicHandler) Respond(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	err := h.responseCommands.Respond(c.Request.Context(), id, req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrAlreadyResponded):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Quotation has already been responded to", nil)
		case errors.Is(err, errs.ErrQuotationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Quotation not found", nil)
		case isValidationError(err):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request data", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Response recorded"})
}
