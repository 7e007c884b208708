package models

import (
	"time"
)

type BackgroundStyle string

const (
	BackgroundSolid    BackgroundStyle = "solid"
	BackgroundGradient BackgroundStyle = "gradient"
	BackgroundPattern  BackgroundStyle = "pattern"
)

const (
	DefaultPrimaryColor    = "#14b8a6"
	DefaultAccentColor     = "#06b6d4"
	DefaultFontFamily      = "Inter"
	DefaultThankYouMessage = "Thank you for completing this quiz!"
)

// Theme is the presentation configuration shown to students
type Theme struct {
	PrimaryColor       string          `json:"primaryColor" gorm:"size:16;not null;default:'#14b8a6'" validate:"omitempty,hex_color"`
	AccentColor        string          `json:"accentColor" gorm:"size:16;not null;default:'#06b6d4'" validate:"omitempty,hex_color"`
	FontFamily         string          `json:"fontFamily" gorm:"size:64;not null;default:'Inter'" validate:"omitempty,max=64"`
	BackgroundStyle    BackgroundStyle `json:"backgroundStyle" gorm:"size:16;not null;default:'gradient'" validate:"omitempty,background_style"`
	CustomWelcomeText  *string         `json:"customWelcomeText,omitempty" gorm:"type:text" validate:"omitempty,max=2000"`
	CustomInstructions *string         `json:"customInstructions,omitempty" gorm:"type:text" validate:"omitempty,max=2000"`
	CustomThankYouText *string         `json:"customThankYouText,omitempty" gorm:"type:text" validate:"omitempty,max=2000"`
}

func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:    DefaultPrimaryColor,
		AccentColor:     DefaultAccentColor,
		FontFamily:      DefaultFontFamily,
		BackgroundStyle: BackgroundGradient,
	}
}

// WithDefaults fills empty presentation fields with the default theme values
func (t Theme) WithDefaults() Theme {
	def := DefaultTheme()
	if t.PrimaryColor == "" {
		t.PrimaryColor = def.PrimaryColor
	}
	if t.AccentColor == "" {
		t.AccentColor = def.AccentColor
	}
	if t.FontFamily == "" {
		t.FontFamily = def.FontFamily
	}
	if t.BackgroundStyle == "" {
		t.BackgroundStyle = def.BackgroundStyle
	}
	return t
}

// ThankYouMessage returns the custom thank-you text or the default one
func (t Theme) ThankYouMessage() string {
	if t.CustomThankYouText != nil && *t.CustomThankYouText != "" {
		return *t.CustomThankYouText
	}
	return DefaultThankYouMessage
}

type Quiz struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	CreatorID   string     `json:"creatorId" gorm:"size:128;not null;index"`
	Title       string     `json:"title" gorm:"size:200;not null"`
	Description *string    `json:"description,omitempty" gorm:"type:text"`
	Subject     *string    `json:"subject,omitempty" gorm:"size:100"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	TimeLimit   *int       `json:"timeLimit,omitempty"` // minutes
	MaxAttempts *int       `json:"maxAttempts,omitempty"`
	Theme       Theme      `json:"theme" gorm:"embedded;embeddedPrefix:theme_"`

	ShareableLinkID string `json:"shareableLinkId" gorm:"size:32;not null;uniqueIndex"`
	IsPublished     bool   `json:"isPublished" gorm:"not null;default:false;index"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Questions   []Question   `json:"questions" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	Submissions []Submission `json:"-" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
}

// Availability is the outcome of checking a quiz's start/end window
type Availability int

const (
	Available Availability = iota
	NotYetAvailable
	Expired
)

// AvailabilityAt reports whether the quiz window is open at now
func (q *Quiz) AvailabilityAt(now time.Time) Availability {
	if q.StartDate != nil && q.StartDate.After(now) {
		return NotYetAvailable
	}
	if q.EndDate != nil && q.EndDate.Before(now) {
		return Expired
	}
	return Available
}

// ExceedsTimeLimit reports whether a client-reported duration in seconds
// is longer than the quiz time limit.
func (q *Quiz) ExceedsTimeLimit(timeTaken *int) bool {
	if q.TimeLimit == nil || *q.TimeLimit <= 0 || timeTaken == nil {
		return false
	}
	return *timeTaken > *q.TimeLimit*60
}
