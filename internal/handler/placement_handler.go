package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campora/college-admin-api/internal/service"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
	"github.com/campora/college-admin-api/pkg/response"
)

// PlacementHandler wires HTTP endpoints to the placement service.
type PlacementHandler struct {
	service *service.PlacementService
}

// NewPlacementHandler creates a new handler.
func NewPlacementHandler(svc *service.PlacementService) *PlacementHandler {
	return &PlacementHandler{service: svc}
}

// BulkAssign godoc
// @Summary Assign placement fees to a year
// @Description Rate every active student of the year, skipping those already rated
// @Tags Placement
// @Accept json
// @Produce json
// @Param payload body service.BulkAssignPlacementRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /placement/fees [post]
func (h *PlacementHandler) BulkAssign(c *gin.Context) {
	var req service.BulkAssignPlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid placement fee payload"))
		return
	}

	outcome, err := h.service.BulkAssign(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome, nil)
}

// RecordPayment godoc
// @Summary Record a placement fee payment
// @Tags Placement
// @Accept json
// @Produce json
// @Param payload body service.PlacementPaymentRequest true "Payment payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /placement/payments [post]
func (h *PlacementHandler) RecordPayment(c *gin.Context) {
	var req service.PlacementPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid placement payment payload"))
		return
	}

	student, err := h.service.RecordPayment(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Stats godoc
// @Summary Placement fee coverage stats
// @Tags Placement
// @Produce json
// @Param year query int false "Year filter (0 for all)"
// @Success 200 {object} response.Envelope
// @Router /placement/stats [get]
func (h *PlacementHandler) Stats(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))

	stats, err := h.service.Stats(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
