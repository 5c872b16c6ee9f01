package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	reqdto "quotedesk/internal/handler/dto/request"
	"quotedesk/internal/handler/middleware"
	"quotedesk/internal/pkg/errs"
	"quotedesk/internal/usecase/commands"
	"quotedesk/internal/usecase/queries"
)

type QuotationHandler struct {
	quotationCommands commands.QuotationCommands
	quotationQueries  queries.QuotationQueries
}

func NewQuotationHandler(quotationCommands commands.QuotationCommands, quotationQueries queries.QuotationQueries) *QuotationHandler {
	return &QuotationHandler{
		quotationCommands: quotationCommands,
		quotationQueries:  quotationQueries,
	}
}

// @Summary Create a quotation
// @Tags quotations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateQuotationRequest true "Quotation request"
// @Success 201 {object} resdto.QuotationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req reqdto.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.quotationCommands.Create(c.Request.Context(), req, adminID)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request data",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusCreated, view)
}

// @Summary List quotations of the authenticated admin
// @Tags quotations
// @Security BearerAuth
// @Produce json
// @Param take query int false "Page size"
// @Param skip query int false "Offset"
// @Success 200 {object} resdto.QuotationListResponse
// @Failure 401 {object} map[string]string
// @Router /quotations/admin [get]
func (h *QuotationHandler) List(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	take := parseIntQuery(c, "take", 0)
	skip := parseIntQuery(c, "skip", 0)

	page, err := h.quotationQueries.ListForAdmin(c.Request.Context(), adminID, take, skip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, page)
}

// @Summary Dashboard statistics for the authenticated admin
// @Tags quotations
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.DashboardStatsResponse
// @Failure 401 {object} map[string]string
// @Router /quotations/admin/stats [get]
func (h *QuotationHandler) Stats(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	stats, err := h.quotationQueries.DashboardStats(c.Request.Context(), adminID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary Get a quotation with items and response history
// @Tags quotations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} resdto.QuotationResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /quotations/{id} [get]
func (h *QuotationHandler) Get(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := h.quotationQueries.GetQuotation(c.Request.Context(), id, adminID)
	if err != nil {
		h.respondQuotationError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Update a quotation's items or validity date
// @Tags quotations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body reqdto.UpdateQuotationRequest true "Update request"
// @Success 200 {object} resdto.QuotationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /quotations/{id} [put]
func (h *QuotationHandler) Update(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.UpdateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.quotationCommands.Update(c.Request.Context(), id, req, adminID)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request data",
			})
			return
		}
		h.respondQuotationError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Delete a quotation
// @Tags quotations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} resdto.MessageResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /quotations/{id} [delete]
func (h *QuotationHandler) Delete(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.quotationCommands.Remove(c.Request.Context(), id, adminID); err != nil {
		h.respondQuotationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quotation deleted"})
}

// @Summary Email the quotation to the client
// @Tags quotations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} resdto.MessageResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /quotations/{id}/send [post]
func (h *QuotationHandler) Send(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.quotationCommands.SendEmail(c.Request.Context(), id, adminID); err != nil {
		if errors.Is(err, errs.ErrAlreadyResponded) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Quotation has already been responded to",
			})
			return
		}
		h.respondQuotationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quotation email queued"})
}

func (h *QuotationHandler) respondQuotationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrQuotationNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Quotation not found",
		})
	case errors.Is(err, errs.ErrQuotationAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access to this quotation is denied",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid quotation ID",
		})
		return uuid.Nil, false
	}
	return id, true
}

func parseIntQuery(c *gin.Context, key string, fallback int32) int32 {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || parsed < 0 {
		return fallback
	}
	return int32(parsed)
}
