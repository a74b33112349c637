package student

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

var (
	// errors
	ErrNotFound         = errors.New("student not found")
	ErrNotLinked        = errors.New("no student linked to this account")
	ErrPasswordRequired = errors.New("password required to create new user")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, std Student) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByUserID(ctx context.Context, userID string) (Student, error)
		// SetStudentUser writes the link column; an invalid null.String clears it.
		SetStudentUser(ctx context.Context, id string, userID null.String) error
		DeleteStudent(ctx context.Context, id string) error
	}

	Service interface {
		Create(ctx context.Context, ns NewStudent) (Student, error)
		QueryAll(ctx context.Context) ([]Student, error)
		GetByID(ctx context.Context, id string) (Student, error)
		// GetByUserID resolves "my profile" for a student-role caller;
		// ErrNotLinked when no record references the account.
		GetByUserID(ctx context.Context, userID string) (Student, error)
		// Link attaches the account with the given email to the student,
		// creating a student-role account when the email is unknown.
		// Existing accounts are reused untouched. Returns the account ID.
		Link(ctx context.Context, ls LinkStudent) (string, error)
		// Unlink clears the link unconditionally; a no-op when not linked.
		Unlink(ctx context.Context, studentID string) error
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo   Repository
		usrSvc user.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, usrSvc user.Service) Service {
	return &service{
		repo:   repo,
		usrSvc: usrSvc,
	}
}

func (svc *service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		ID:        uuid.New().String(),
		Name:      ns.Name,
		Class:     ns.Class,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *service) GetByUserID(ctx context.Context, userID string) (Student, error) {
	std, err := svc.repo.GetStudentByUserID(ctx, userID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Student{}, ErrNotLinked
		}
		return Student{}, err
	}
	return std, nil
}

func (svc *service) Link(ctx context.Context, ls LinkStudent) (string, error) {
	if _, err := svc.repo.GetStudentByID(ctx, ls.StudentID); err != nil {
		return "", err
	}

	usr, err := svc.usrSvc.GetByEmail(ctx, ls.Email)
	switch errors.Cause(err) {
	case nil:
		// reuse as-is; the caller's password/name do not touch an existing account
	case user.ErrNotFound:
		if ls.Password == "" {
			return "", ErrPasswordRequired
		}
		name := ls.Name
		if name == "" {
			name = strings.SplitN(ls.Email, "@", 2)[0]
		}
		usr, err = svc.usrSvc.Create(ctx, user.NewUser{
			Name:     name,
			Email:    ls.Email,
			Password: ls.Password,
			Role:     string(user.RoleStudent),
		})
		if err != nil {
			return "", errors.Wrap(err, "creating linked user")
		}
	default:
		return "", errors.Wrap(err, "finding user by email")
	}

	if err = svc.repo.SetStudentUser(ctx, ls.StudentID, null.StringFrom(usr.ID)); err != nil {
		return "", errors.Wrap(err, "linking student")
	}
	return usr.ID, nil
}

func (svc *service) Unlink(ctx context.Context, studentID string) error {
	studentID = core.CleanString(studentID)
	if err := svc.repo.SetStudentUser(ctx, studentID, null.String{}); err != nil {
		return errors.Wrap(err, "unlinking student")
	}
	return nil
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteStudent(ctx, id)
}
