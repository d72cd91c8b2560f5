package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campora/college-admin-api/internal/service"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
	"github.com/campora/college-admin-api/pkg/response"
)

// HostelHandler wires HTTP endpoints to the hostel service.
type HostelHandler struct {
	service *service.HostelService
}

// NewHostelHandler creates a new handler.
func NewHostelHandler(svc *service.HostelService) *HostelHandler {
	return &HostelHandler{service: svc}
}

// AssignFee godoc
// @Summary Assign a hostel fee
// @Description Opt the student in and rate the current year
// @Tags Hostel
// @Accept json
// @Produce json
// @Param payload body service.AssignHostelFeeRequest true "Hostel fee payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hostel/fees [post]
func (h *HostelHandler) AssignFee(c *gin.Context) {
	var req service.AssignHostelFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid hostel fee payload"))
		return
	}

	student, err := h.service.AssignFee(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// RecordPayment godoc
// @Summary Record a hostel fee payment
// @Tags Hostel
// @Accept json
// @Produce json
// @Param payload body service.HostelPaymentRequest true "Payment payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hostel/payments [post]
func (h *HostelHandler) RecordPayment(c *gin.Context) {
	var req service.HostelPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid hostel payment payload"))
		return
	}

	student, err := h.service.RecordPayment(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Disable godoc
// @Summary Opt a student out of the hostel
// @Description Clears the counter but keeps the ledger history
// @Tags Hostel
// @Produce json
// @Param usn path string true "University seat number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hostel/{usn} [delete]
func (h *HostelHandler) Disable(c *gin.Context) {
	student, err := h.service.Disable(c.Request.Context(), claimsFromContext(c), c.Param("usn"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Status godoc
// @Summary Get a student's hostel status
// @Tags Hostel
// @Produce json
// @Param usn path string true "University seat number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hostel/{usn} [get]
func (h *HostelHandler) Status(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context(), c.Param("usn"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}
