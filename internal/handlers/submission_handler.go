package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/forsyth-county/learn/internal/services"
	"github.com/forsyth-county/learn/internal/utils"
	"github.com/gin-gonic/gin"
)

// SubmissionHandler serves submission administration for quiz owners
type SubmissionHandler struct {
	BaseHandler
	submissionService services.SubmissionService
	exportService     services.ExportService
}

func NewSubmissionHandler(
	submissionService services.SubmissionService,
	exportService services.ExportService,
	logger utils.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
		exportService:     exportService,
	}
}

// ListSubmissions lists the submissions of a quiz, newest first
// @Summary List submissions
// @Tags submissions
// @Produce json
// @Param id path uint true "Quiz ID"
// @Param dateFrom query string false "Earliest completion date (YYYY-MM-DD)"
// @Param dateTo query string false "Latest completion date (YYYY-MM-DD)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} services.SubmissionListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/submissions [get]
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	var filters services.SubmissionListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	list, err := h.submissionService.ListSubmissions(c.Request.Context(), id, userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// DeleteSubmissions removes every submission of a quiz
// @Summary Delete submissions
// @Tags submissions
// @Produce json
// @Param id path uint true "Quiz ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/submissions [delete]
func (h *SubmissionHandler) DeleteSubmissions(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := h.submissionService.DeleteSubmissions(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Submissions deleted", gin.H{"deleted": deleted}, "quiz_id", id)
}

// ExportSubmissions downloads the submissions of a quiz
// @Summary Export submissions
// @Tags submissions
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path uint true "Quiz ID"
// @Param format query string false "csv (default) or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/submissions/export [get]
func (h *SubmissionHandler) ExportSubmissions(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	format, err := services.ParseExportFormat(c.Query("format"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	// Buffer the file so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := h.exportService.Export(c.Request.Context(), id, userID, format, &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("quiz-%d-submissions.%s", id, format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
