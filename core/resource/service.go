package resource

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type (
	Repository interface {
		CreateResource(ctx context.Context, r Resource) (Resource, error)
		QueryAllResources(ctx context.Context) ([]Resource, error)
	}

	Service interface {
		Create(ctx context.Context, nr NewResource) (Resource, error)
		QueryAll(ctx context.Context) ([]Resource, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, nr NewResource) (Resource, error) {
	r := Resource{
		ID:          uuid.New().String(),
		Title:       nr.Title,
		Description: nr.Description,
		Method:      nr.Method,
		UploadedBy:  nr.UploadedBy,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateResource(ctx, r)
}

func (svc *service) QueryAll(ctx context.Context) ([]Resource, error) {
	return svc.repo.QueryAllResources(ctx)
}
