package student

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

// Student is a directory record. UserID is a weak reference to the linked
// account: it may be unset, and a dangling value (account removed
// out-of-band) is tolerated by readers.
type Student struct {
	ID        string      `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Class     string      `json:"class" db:"class"`
	UserID    null.String `json:"user_id" db:"user_id"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

func (s Student) Linked() bool { return s.UserID.Valid }

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name  string `json:"name" validate:"required"`
	Class string `json:"class" validate:"required"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Class = core.CleanString(ns.Class)
	return validate.Struct(ns)
}

// LinkStudent attaches an account to a Student, creating the account on
// the fly when the email is unknown.
type LinkStudent struct {
	StudentID string `json:"studentId" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
}

func (ls *LinkStudent) Validate(validate *validator.Validate) error {
	ls.StudentID = core.CleanString(ls.StudentID)
	ls.Email = core.CleanString(ls.Email, true /* lower */)
	ls.Name = core.CleanString(ls.Name)
	return validate.Struct(ls)
}
