package handlers

import (
	"net/http"

	"github.com/forsyth-county/learn/internal/services"
	"github.com/forsyth-county/learn/internal/utils"
	"github.com/gin-gonic/gin"
)

// PublicHandler serves the unauthenticated student surface
type PublicHandler struct {
	BaseHandler
	submissionService services.SubmissionService
}

func NewPublicHandler(submissionService services.SubmissionService, logger utils.Logger) *PublicHandler {
	return &PublicHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
	}
}

// GetQuiz returns the student view of a published quiz
// @Summary Get public quiz
// @Description Resolves a shareable link and returns the quiz without answer keys
// @Tags public
// @Produce json
// @Param slug path string true "Shareable link ID"
// @Success 200 {object} map[string]services.PublicQuizView
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /public/quiz/{slug} [get]
func (h *PublicHandler) GetQuiz(c *gin.Context) {
	slug := ParseStringIDParam(c, "slug")
	if slug == "" {
		return
	}

	quiz, err := h.submissionService.GetPublicQuiz(c.Request.Context(), slug)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quiz": quiz})
}

// SubmitQuiz grades and records one attempt
// @Summary Submit quiz answers
// @Description Grades the answers, stores the submission and returns the per-question results
// @Tags public
// @Accept json
// @Produce json
// @Param slug path string true "Shareable link ID"
// @Param submission body services.SubmitRequest true "Student answers"
// @Success 200 {object} map[string]services.SubmissionResult
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /public/quiz/{slug} [post]
func (h *PublicHandler) SubmitQuiz(c *gin.Context) {
	slug := ParseStringIDParam(c, "slug")
	if slug == "" {
		return
	}

	var req services.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	h.LogRequest(c, "Submitting quiz", "link_id", slug, "answer_count", len(req.Answers))

	results, err := h.submissionService.Submit(c.Request.Context(), slug, &req, c.ClientIP())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
