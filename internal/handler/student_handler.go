package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campora/college-admin-api/internal/models"
	"github.com/campora/college-admin-api/internal/service"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
	"github.com/campora/college-admin-api/pkg/response"
)

// StudentHandler wires HTTP endpoints to the student service.
type StudentHandler struct {
	service *service.StudentService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// Create godoc
// @Summary Admit a student
// @Description Create a student with a linked login and a rated first-year ledger
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}

	student, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, student)
}

// List godoc
// @Summary List students
// @Description List students with search, department, year and status filters
// @Tags Students
// @Produce json
// @Param search query string false "Search by USN or name"
// @Param department query string false "Department filter"
// @Param year query int false "Year filter"
// @Param status query string false "Status filter"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := models.StudentFilter{
		Search:     c.Query("search"),
		Department: c.Query("department"),
		Year:       year,
		Status:     models.StudentStatus(c.Query("status")),
		Page:       page,
		PageSize:   pageSize,
	}

	students, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Get a student by USN
// @Description Returns the full student aggregate including the fee ledger
// @Tags Students
// @Produce json
// @Param usn path string true "University seat number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{usn} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.service.GetByUSN(c.Request.Context(), c.Param("usn"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Me godoc
// @Summary Get own student record
// @Description Returns the student aggregate linked to the authenticated account
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/me [get]
func (h *StudentHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	student, err := h.service.GetSelf(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// UpdateFeeProfile godoc
// @Summary Update fee counters
// @Description Set top-level due counters; zero force-closes the category
// @Tags Students
// @Accept json
// @Produce json
// @Param usn path string true "University seat number"
// @Param payload body service.UpdateFeeProfileRequest true "Fee profile payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{usn}/fees [patch]
func (h *StudentHandler) UpdateFeeProfile(c *gin.Context) {
	var req service.UpdateFeeProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid fee profile payload"))
		return
	}

	student, err := h.service.UpdateFeeProfile(c.Request.Context(), claimsFromContext(c), c.Param("usn"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// SetEligibilityOverride godoc
// @Summary Set the reporting eligibility flag
// @Description Stores a reporting-only flag; the promotion gate ignores it
// @Tags Students
// @Accept json
// @Produce json
// @Param usn path string true "University seat number"
// @Param payload body map[string]bool true "Override payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{usn}/eligibility-override [put]
func (h *StudentHandler) SetEligibilityOverride(c *gin.Context) {
	var payload struct {
		Override *bool `json:"override"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	student, err := h.service.SetEligibilityOverride(c.Request.Context(), c.Param("usn"), payload.Override)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}
