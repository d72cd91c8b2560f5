package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campora/college-admin-api/internal/models"
	"github.com/campora/college-admin-api/internal/repository"
	"github.com/campora/college-admin-api/internal/service"
	"github.com/campora/college-admin-api/pkg/response"
)

// AnalyticsHandler wires HTTP endpoints to the analytics and metrics
// services, plus the audit trail listing.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	metrics   *service.MetricsService
	audits    *repository.AuditRepository
}

// NewAnalyticsHandler creates a new handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService, metrics *service.MetricsService, audits *repository.AuditRepository) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, metrics: metrics, audits: audits}
}

// Dashboard godoc
// @Summary Student population summary
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.analytics.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Fees godoc
// @Summary Fee collection analytics
// @Description Per-category totals with an optional grouped breakdown
// @Tags Analytics
// @Produce json
// @Param year query int false "Year filter"
// @Param department query string false "Department filter"
// @Param fee_type query string false "Fee type for the breakdown chart"
// @Success 200 {object} response.Envelope
// @Router /analytics/fees [get]
func (h *AnalyticsHandler) Fees(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	filter := models.AnalyticsFilter{
		Year:       year,
		Department: c.Query("department"),
		FeeType:    models.FeeType(c.Query("fee_type")),
	}

	analytics, err := h.analytics.FeeAnalytics(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, analytics, nil)
}

// SystemMetrics godoc
// @Summary Process metrics snapshot
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/system [get]
func (h *AnalyticsHandler) SystemMetrics(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}

// AuditTrail godoc
// @Summary Recent audit entries
// @Tags Analytics
// @Produce json
// @Param resource query string false "Resource filter"
// @Param limit query int false "Max entries"
// @Success 200 {object} response.Envelope
// @Router /analytics/audit [get]
func (h *AnalyticsHandler) AuditTrail(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	logs, err := h.audits.ListRecent(c.Request.Context(), c.Query("resource"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}
