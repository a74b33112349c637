package assessment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrInvalidDate = errors.New("invalid assessment date")

type (
	Repository interface {
		CreateAssessment(ctx context.Context, a Assessment) (Assessment, error)
		// QueryAssessments returns assessments newest-date first, optionally
		// filtered by student.
		QueryAssessments(ctx context.Context, studentID string) ([]Assessment, error)
	}

	Service interface {
		Create(ctx context.Context, na NewAssessment) (Assessment, error)
		Query(ctx context.Context, studentID string) ([]Assessment, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, na NewAssessment) (Assessment, error) {
	date, err := time.Parse("2006-01-02", na.Date)
	if err != nil {
		if date, err = time.Parse(time.RFC3339, na.Date); err != nil {
			return Assessment{}, ErrInvalidDate
		}
	}

	a := Assessment{
		ID:        uuid.New().String(),
		StudentID: na.StudentID,
		Subject:   na.Subject,
		Score:     na.Score,
		Date:      date.UTC(),
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateAssessment(ctx, a)
}

func (svc *service) Query(ctx context.Context, studentID string) ([]Assessment, error) {
	return svc.repo.QueryAssessments(ctx, studentID)
}
