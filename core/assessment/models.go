package assessment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

type Assessment struct {
	ID        string    `json:"id" db:"id"`
	StudentID string    `json:"student_id" db:"student_id"`
	Subject   string    `json:"subject" db:"subject"`
	Score     float64   `json:"score" db:"score"`
	Date      time.Time `json:"date" db:"date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

type NewAssessment struct {
	StudentID string  `json:"studentId" validate:"required"`
	Subject   string  `json:"subject" validate:"required"`
	Score     float64 `json:"score"`
	Date      string  `json:"date" validate:"required"`
}

func (na *NewAssessment) Validate(validate *validator.Validate) error {
	na.StudentID = core.CleanString(na.StudentID)
	na.Subject = core.CleanString(na.Subject)
	na.Date = core.CleanString(na.Date)
	return validate.Struct(na)
}
