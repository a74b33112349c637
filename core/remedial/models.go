package remedial

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// Plan is a remedial plan assigned to a student; Progress runs 0-100.
type Plan struct {
	ID          string    `json:"id" db:"id"`
	StudentID   string    `json:"student_id" db:"student_id"`
	PlanDetails string    `json:"plan_details" db:"plan_details"`
	AssignedBy  string    `json:"assigned_by" db:"assigned_by"`
	Progress    int       `json:"progress" db:"progress"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
}

type NewPlan struct {
	StudentID   string `json:"studentId" validate:"required"`
	PlanDetails string `json:"planDetails" validate:"required"`
	AssignedBy  string `json:"assignedBy" validate:"required"`
}

func (np *NewPlan) Validate(validate *validator.Validate) error {
	np.StudentID = core.CleanString(np.StudentID)
	np.PlanDetails = core.CleanString(np.PlanDetails)
	np.AssignedBy = core.CleanString(np.AssignedBy)
	return validate.Struct(np)
}

type ProgressUpdate struct {
	Progress *int `json:"progress" validate:"required,min=0,max=100"`
}

func (pu *ProgressUpdate) Validate(validate *validator.Validate) error {
	return validate.Struct(pu)
}
