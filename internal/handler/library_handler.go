package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campora/college-admin-api/internal/service"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
	"github.com/campora/college-admin-api/pkg/response"
)

// LibraryHandler wires HTTP endpoints to the library service.
type LibraryHandler struct {
	service *service.LibraryService
}

// NewLibraryHandler creates a new handler.
func NewLibraryHandler(svc *service.LibraryService) *LibraryHandler {
	return &LibraryHandler{service: svc}
}

// Issue godoc
// @Summary Issue a book
// @Tags Library
// @Accept json
// @Produce json
// @Param payload body service.IssueBookRequest true "Issue payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /library/loans [post]
func (h *LibraryHandler) Issue(c *gin.Context) {
	var req service.IssueBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid issue payload"))
		return
	}

	record, err := h.service.Issue(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Return godoc
// @Summary Return a book
// @Description Close the loan, optionally with a fine, remarks or a lost flag
// @Tags Library
// @Accept json
// @Produce json
// @Param id path string true "Loan record id"
// @Param payload body service.ReturnBookRequest true "Return payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /library/loans/{id}/return [post]
func (h *LibraryHandler) Return(c *gin.Context) {
	var req service.ReturnBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid return payload"))
		return
	}

	record, err := h.service.Return(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// History godoc
// @Summary Loan history for a student
// @Tags Library
// @Produce json
// @Param usn path string true "University seat number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /library/students/{usn} [get]
func (h *LibraryHandler) History(c *gin.Context) {
	records, err := h.service.History(c.Request.Context(), c.Param("usn"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// MyBooks godoc
// @Summary Loan history for the authenticated student
// @Tags Library
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /library/my-books [get]
func (h *LibraryHandler) MyBooks(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	records, err := h.service.MyBooks(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Unreturned godoc
// @Summary List all outstanding loans
// @Tags Library
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /library/unreturned [get]
func (h *LibraryHandler) Unreturned(c *gin.Context) {
	records, err := h.service.Unreturned(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}
