package services

import (
	"log/slog"

	"github.com/forsyth-county/learn/internal/cache"
	"github.com/forsyth-county/learn/internal/events"
	"github.com/forsyth-county/learn/internal/metrics"
	"github.com/forsyth-county/learn/internal/repositories"
	"github.com/forsyth-county/learn/internal/utils"
	"github.com/forsyth-county/learn/internal/validator"
)

// ServiceManager hands out the service implementations to the HTTP layer
type ServiceManager interface {
	Quiz() QuizService
	Submission() SubmissionService
	Export() ExportService
	Stats() StatsService
}

// Dependencies collects everything the services need
type Dependencies struct {
	Repo      repositories.Repository
	Cache     cache.QuizCache
	Publisher events.EventPublisher
	Validator *validator.Validator
	Hasher    *utils.IPHasher
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

type serviceManager struct {
	quiz       QuizService
	submission SubmissionService
	export     ExportService
	stats      StatsService
}

func NewServiceManager(deps Dependencies) ServiceManager {
	if deps.Cache == nil {
		deps.Cache = cache.NopQuizCache{}
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Hasher == nil {
		deps.Hasher = utils.NewIPHasher("")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NewMockEventPublisher(deps.Logger)
	}

	return &serviceManager{
		quiz:       NewQuizService(deps.Repo, deps.Cache, deps.Publisher, deps.Validator, deps.Logger.With("service", "quiz")),
		submission: NewSubmissionService(deps.Repo, deps.Cache, deps.Publisher, deps.Hasher, deps.Metrics, deps.Logger.With("service", "submission")),
		export:     NewExportService(deps.Repo, deps.Logger.With("service", "export")),
		stats:      NewStatsService(deps.Repo, deps.Logger.With("service", "stats")),
	}
}

func (m *serviceManager) Quiz() QuizService             { return m.quiz }
func (m *serviceManager) Submission() SubmissionService { return m.submission }
func (m *serviceManager) Export() ExportService         { return m.export }
func (m *serviceManager) Stats() StatsService           { return m.stats }
