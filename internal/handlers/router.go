package handlers

import (
	"net/http"

	"github.com/forsyth-county/learn/internal/auth"
	"github.com/forsyth-county/learn/internal/metrics"
	"github.com/forsyth-county/learn/internal/ratelimit"
	"github.com/forsyth-county/learn/internal/services"
	"github.com/forsyth-county/learn/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	quizHandler       *QuizHandler
	publicHandler     *PublicHandler
	submissionHandler *SubmissionHandler
	statsHandler      *StatsHandler
}

// RouteOptions carries the middleware dependencies of the API groups
type RouteOptions struct {
	Authenticator  auth.Authenticator
	PublicLimiter  ratelimit.Limiter
	TeacherLimiter ratelimit.Limiter
	Metrics        *metrics.Metrics
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		quizHandler:       NewQuizHandler(serviceManager.Quiz(), logger),
		publicHandler:     NewPublicHandler(serviceManager.Submission(), logger),
		submissionHandler: NewSubmissionHandler(serviceManager.Submission(), serviceManager.Export(), logger),
		statsHandler:      NewStatsHandler(serviceManager.Stats(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, opts RouteOptions) {
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		router.GET("/metrics", opts.Metrics.Handler())
	}

	// Health check endpoint
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")

	// Student-facing routes, limited per client IP
	public := v1.Group("/public")
	if opts.PublicLimiter != nil {
		public.Use(ratelimit.Middleware(opts.PublicLimiter, ratelimit.ByClientIP))
	}
	{
		public.GET("/quiz/:slug", hm.publicHandler.GetQuiz)
		public.POST("/quiz/:slug", hm.publicHandler.SubmitQuiz)
	}

	// Teacher routes, authenticated and limited per user
	teacher := v1.Group("")
	teacher.Use(auth.Middleware(opts.Authenticator))
	if opts.TeacherLimiter != nil {
		teacher.Use(ratelimit.Middleware(opts.TeacherLimiter, ratelimit.ByUserID))
	}
	{
		quizzes := teacher.Group("/quizzes")
		{
			quizzes.POST("", hm.quizHandler.CreateQuiz)
			quizzes.GET("", hm.quizHandler.ListQuizzes)
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.PUT("/:id", hm.quizHandler.UpdateQuiz)
			quizzes.DELETE("/:id", hm.quizHandler.DeleteQuiz)

			// Submission administration
			quizzes.GET("/:id/submissions", hm.submissionHandler.ListSubmissions)
			quizzes.DELETE("/:id/submissions", hm.submissionHandler.DeleteSubmissions)
			quizzes.GET("/:id/submissions/export", hm.submissionHandler.ExportSubmissions)
		}

		teacher.GET("/stats", hm.statsHandler.GetStats)
	}
}

// HealthCheck reports liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "quiz-service",
	})
}
