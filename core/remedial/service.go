package remedial

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("remedial plan not found")

type (
	Repository interface {
		CreatePlan(ctx context.Context, p Plan) (Plan, error)
		// QueryPlans returns plans newest first, optionally filtered by student.
		QueryPlans(ctx context.Context, studentID string) ([]Plan, error)
		UpdatePlanProgress(ctx context.Context, id string, progress int) (Plan, error)
	}

	Service interface {
		Assign(ctx context.Context, np NewPlan) (Plan, error)
		Query(ctx context.Context, studentID string) ([]Plan, error)
		UpdateProgress(ctx context.Context, id string, progress int) (Plan, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Assign(ctx context.Context, np NewPlan) (Plan, error) {
	now := time.Now().UTC()
	p := Plan{
		ID:          uuid.New().String(),
		StudentID:   np.StudentID,
		PlanDetails: np.PlanDetails,
		AssignedBy:  np.AssignedBy,
		Progress:    0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreatePlan(ctx, p)
}

func (svc *service) Query(ctx context.Context, studentID string) ([]Plan, error) {
	return svc.repo.QueryPlans(ctx, studentID)
}

func (svc *service) UpdateProgress(ctx context.Context, id string, progress int) (Plan, error) {
	return svc.repo.UpdatePlanProgress(ctx, id, progress)
}
