package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission is one graded attempt at a quiz. Rows are written once by the
// submission pipeline and never updated.
type Submission struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	QuizID            uint           `json:"quizId" gorm:"not null;index"`
	StudentName       string         `json:"studentName" gorm:"size:100;not null"`
	StudentIdentifier *string        `json:"studentIdentifier,omitempty" gorm:"size:50"`
	Answers           datatypes.JSON `json:"answers"`
	Score             int            `json:"score" gorm:"not null"`
	TotalPoints       int            `json:"totalPoints" gorm:"not null"`
	CompletedAt       time.Time      `json:"completedAt" gorm:"not null;index"`
	IPHash            string         `json:"-" gorm:"size:64"`
	TimeTaken         *int           `json:"timeTaken,omitempty"` // seconds
	ExceededTimeLimit bool           `json:"exceededTimeLimit" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"-"`

	Quiz *Quiz `json:"-" gorm:"foreignKey:QuizID"`
}

// Percentage returns the rounded score percentage, or 0 when the quiz had no points
func (s *Submission) Percentage() int {
	return Percentage(s.Score, s.TotalPoints)
}

// Percentage rounds score/total*100 half up; a zero total yields 0
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return (score*200 + total) / (total * 2)
}
