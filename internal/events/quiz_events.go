package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of domain events the service emits
type EventType string

const (
	// Quiz events
	EventQuizPublished EventType = "quiz.published"
	EventQuizDeleted   EventType = "quiz.deleted"

	// Submission events
	EventSubmissionRecorded EventType = "submission.recorded"
	EventSubmissionsPurged  EventType = "submissions.purged"
)

const (
	eventSource  = "quiz-service"
	eventVersion = "1.0"
)

// Event is the envelope for every published event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Quiz event payloads

type QuizPublishedEvent struct {
	QuizID          uint       `json:"quizId"`
	QuizTitle       string     `json:"quizTitle"`
	ShareableLinkID string     `json:"shareableLinkId"`
	CreatorID       string     `json:"creatorId"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	QuestionCount   int        `json:"questionCount"`
}

type QuizDeletedEvent struct {
	QuizID             uint   `json:"quizId"`
	QuizTitle          string `json:"quizTitle"`
	CreatorID          string `json:"creatorId"`
	DeletedSubmissions int64  `json:"deletedSubmissions"`
}

// Submission event payloads

type SubmissionRecordedEvent struct {
	SubmissionID      uint      `json:"submissionId"`
	QuizID            uint      `json:"quizId"`
	QuizTitle         string    `json:"quizTitle"`
	CreatorID         string    `json:"creatorId"`
	Score             int       `json:"score"`
	TotalPoints       int       `json:"totalPoints"`
	Percentage        int       `json:"percentage"`
	ExceededTimeLimit bool      `json:"exceededTimeLimit"`
	CompletedAt       time.Time `json:"completedAt"`
}

type SubmissionsPurgedEvent struct {
	QuizID    uint   `json:"quizId"`
	CreatorID string `json:"creatorId"`
	Count     int64  `json:"count"`
}

// Event factory functions

func newEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func NewQuizPublishedEvent(data QuizPublishedEvent) *Event {
	return newEvent(EventQuizPublished, data)
}

func NewQuizDeletedEvent(data QuizDeletedEvent) *Event {
	return newEvent(EventQuizDeleted, data)
}

func NewSubmissionRecordedEvent(data SubmissionRecordedEvent) *Event {
	return newEvent(EventSubmissionRecorded, data)
}

func NewSubmissionsPurgedEvent(data SubmissionsPurgedEvent) *Event {
	return newEvent(EventSubmissionsPurged, data)
}

// GenerateEventID returns a random unique event id
func GenerateEventID() string {
	return uuid.NewString()
}
