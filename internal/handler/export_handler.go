package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campora/college-admin-api/internal/models"
	"github.com/campora/college-admin-api/internal/service"
	"github.com/campora/college-admin-api/pkg/response"
)

// ExportHandler serves downloadable CSV and PDF artifacts.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// DueListCSV godoc
// @Summary Download the outstanding-dues CSV
// @Tags Exports
// @Produce text/csv
// @Param year query int false "Year filter"
// @Param department query string false "Department filter"
// @Success 200 {file} file
// @Router /exports/due-list [get]
func (h *ExportHandler) DueListCSV(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	filter := models.AnalyticsFilter{
		Year:       year,
		Department: c.Query("department"),
	}

	payload, filename, err := h.service.DueListCSV(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", payload)
}

// ReceiptPDF godoc
// @Summary Download a fee payment receipt PDF
// @Tags Exports
// @Produce application/pdf
// @Param usn path string true "University seat number"
// @Param record_id path string true "Fee record id"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /exports/receipts/{usn}/{record_id} [get]
func (h *ExportHandler) ReceiptPDF(c *gin.Context) {
	payload, filename, err := h.service.ReceiptPDF(c.Request.Context(), c.Param("usn"), c.Param("record_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", payload)
}
