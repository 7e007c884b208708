package validator

import (
	"reflect"
	"strings"

	apperrors "github.com/forsyth-county/learn/internal/errors"
	"github.com/forsyth-county/learn/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator combines struct-tag validation with quiz answer-key rules
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags and converts failures to field errors
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// ValidateQuiz runs struct tags on the theme and the answer-key rules on the quiz
func (v *Validator) ValidateQuiz(quiz *models.Quiz) error {
	var errs apperrors.ValidationErrors

	if err := v.structValidator.Struct(quiz.Theme); err != nil {
		for _, fieldErr := range apperrors.ToValidationErrors(err) {
			fieldErr.Field = "theme." + fieldErr.Field
			errs = append(errs, fieldErr)
		}
	}

	if err := v.questionValidator.ValidateQuiz(quiz); err != nil {
		if quizErrs, ok := err.(apperrors.ValidationErrors); ok {
			errs = append(errs, quizErrs...)
		} else {
			return err
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_kind", validateQuestionKind)
	validate.RegisterValidation("background_style", validateBackgroundStyle)
	validate.RegisterAlias("hex_color", "hexcolor")

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions
func validateQuestionKind(fl validator.FieldLevel) bool {
	return models.QuestionKind(fl.Field().String()).IsValid()
}

func validateBackgroundStyle(fl validator.FieldLevel) bool {
	validStyles := []models.BackgroundStyle{
		models.BackgroundSolid,
		models.BackgroundGradient,
		models.BackgroundPattern,
	}

	value := fl.Field().String()
	for _, style := range validStyles {
		if string(style) == value {
			return true
		}
	}
	return false
}
