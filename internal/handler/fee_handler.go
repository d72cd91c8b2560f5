package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campora/college-admin-api/internal/service"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
	"github.com/campora/college-admin-api/pkg/response"
)

// FeeHandler wires HTTP endpoints to the fee, promotion and reconciliation
// services.
type FeeHandler struct {
	fees           *service.FeeService
	promotions     *service.PromotionService
	reconciliation *service.ReconciliationService
}

// NewFeeHandler creates a new handler.
func NewFeeHandler(fees *service.FeeService, promotions *service.PromotionService, reconciliation *service.ReconciliationService) *FeeHandler {
	return &FeeHandler{fees: fees, promotions: promotions, reconciliation: reconciliation}
}

// RecordPayment godoc
// @Summary Record a fee payment
// @Description Apply a payment to a fee record selected by ID or by fee type
// @Tags Fees
// @Accept json
// @Produce json
// @Param payload body service.RecordPaymentRequest true "Payment payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /fees/payments [post]
func (h *FeeHandler) RecordPayment(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payment payload"))
		return
	}

	result, err := h.fees.RecordPayment(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// MarkPaid godoc
// @Summary Mark a fee category as paid
// @Description Force-close every open record of the category with an Auto-Clear entry
// @Tags Fees
// @Accept json
// @Produce json
// @Param payload body service.MarkPaidRequest true "Mark paid payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /fees/mark-paid [post]
func (h *FeeHandler) MarkPaid(c *gin.Context) {
	var req service.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mark paid payload"))
		return
	}

	student, err := h.fees.MarkPaid(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// SetGovernmentFee godoc
// @Summary Update the default government quota fee
// @Description Persist the rate and re-rate every active government quota student
// @Tags Fees
// @Accept json
// @Produce json
// @Param payload body service.SetGovernmentFeeRequest true "Fee payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /fees/government [put]
func (h *FeeHandler) SetGovernmentFee(c *gin.Context) {
	var req service.SetGovernmentFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid government fee payload"))
		return
	}

	outcome, err := h.fees.SetGovernmentFee(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome, nil)
}

// Evaluate godoc
// @Summary Evaluate promotion eligibility
// @Description Run the eligibility gate without mutating the student
// @Tags Promotion
// @Produce json
// @Param usn path string true "University seat number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /promotion/{usn}/evaluate [get]
func (h *FeeHandler) Evaluate(c *gin.Context) {
	decision, err := h.promotions.Evaluate(c.Request.Context(), c.Param("usn"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, decision, nil)
}

// PromoteStudent godoc
// @Summary Promote a student
// @Description Advance one student to the next year (final year graduates)
// @Tags Promotion
// @Produce json
// @Param usn path string true "University seat number"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /promotion/{usn} [post]
func (h *FeeHandler) PromoteStudent(c *gin.Context) {
	student, err := h.promotions.PromoteStudent(c.Request.Context(), claimsFromContext(c), c.Param("usn"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// PromoteYear godoc
// @Summary Promote a whole year
// @Description Advance every eligible active student of the year, counting the held
// @Tags Promotion
// @Produce json
// @Param year path int true "Academic year (1-4)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /promotion/year/{year} [post]
func (h *FeeHandler) PromoteYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be a number"))
		return
	}

	report, err := h.promotions.PromoteYear(c.Request.Context(), claimsFromContext(c), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// ReconcileStudent godoc
// @Summary Reconcile one student's ledger
// @Description Merge duplicates, recompute payments and redistribute excess
// @Tags Reconciliation
// @Produce json
// @Param usn path string true "University seat number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reconciliation/{usn} [post]
func (h *FeeHandler) ReconcileStudent(c *gin.Context) {
	student, changed, err := h.reconciliation.ReconcileByUSN(c.Request.Context(), claimsFromContext(c), c.Param("usn"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil, map[string]interface{}{"changed": changed})
}

// ReconcileAll godoc
// @Summary Reconcile every active student
// @Description Schedule a background reconciliation job per active student
// @Tags Reconciliation
// @Produce json
// @Success 202 {object} response.Envelope
// @Router /reconciliation [post]
func (h *FeeHandler) ReconcileAll(c *gin.Context) {
	enqueued, err := h.reconciliation.EnqueueAll(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"enqueued": enqueued}, nil)
}
