package resource

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// Resource is a shared teaching resource.
type Resource struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Method      string    `json:"method" db:"method"`
	UploadedBy  string    `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
}

type NewResource struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Method      string `json:"method" validate:"required"`
	UploadedBy  string `json:"uploadedBy" validate:"required"`
}

func (nr *NewResource) Validate(validate *validator.Validate) error {
	nr.Title = core.CleanString(nr.Title)
	nr.Description = core.CleanString(nr.Description)
	nr.Method = core.CleanString(nr.Method)
	nr.UploadedBy = core.CleanString(nr.UploadedBy)
	return validate.Struct(nr)
}
