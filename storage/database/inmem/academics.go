package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/shule/core/assessment"
	"github.com/trezcool/shule/core/remedial"
	"github.com/trezcool/shule/core/resource"
)

type assessmentRepository struct {
	db *DB
}

var _ assessment.Repository = (*assessmentRepository)(nil)

func NewAssessmentRepository(db *DB) *assessmentRepository {
	return &assessmentRepository{db: db}
}

func (repo *assessmentRepository) CreateAssessment(_ context.Context, a assessment.Assessment) (assessment.Assessment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.assessments[a.ID] = &a
	return a, nil
}

func (repo *assessmentRepository) QueryAssessments(_ context.Context, studentID string) ([]assessment.Assessment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	items := make([]assessment.Assessment, 0, len(repo.db.assessments))
	for _, a := range repo.db.assessments {
		if studentID != "" && a.StudentID != studentID {
			continue
		}
		items = append(items, *a)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
	return items, nil
}

type remedialRepository struct {
	db *DB
}

var _ remedial.Repository = (*remedialRepository)(nil)

func NewRemedialRepository(db *DB) *remedialRepository {
	return &remedialRepository{db: db}
}

func (repo *remedialRepository) CreatePlan(_ context.Context, p remedial.Plan) (remedial.Plan, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.plans[p.ID] = &p
	return p, nil
}

func (repo *remedialRepository) QueryPlans(_ context.Context, studentID string) ([]remedial.Plan, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	items := make([]remedial.Plan, 0, len(repo.db.plans))
	for _, p := range repo.db.plans {
		if studentID != "" && p.StudentID != studentID {
			continue
		}
		items = append(items, *p)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (repo *remedialRepository) UpdatePlanProgress(_ context.Context, id string, progress int) (remedial.Plan, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p, ok := repo.db.plans[id]
	if !ok {
		return remedial.Plan{}, remedial.ErrNotFound
	}
	p.Progress = progress
	p.UpdatedAt = time.Now().UTC()
	return *p, nil
}

type resourceRepository struct {
	db *DB
}

var _ resource.Repository = (*resourceRepository)(nil)

func NewResourceRepository(db *DB) *resourceRepository {
	return &resourceRepository{db: db}
}

func (repo *resourceRepository) CreateResource(_ context.Context, r resource.Resource) (resource.Resource, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.resources[r.ID] = &r
	return r, nil
}

func (repo *resourceRepository) QueryAllResources(_ context.Context) ([]resource.Resource, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	items := make([]resource.Resource, 0, len(repo.db.resources))
	for _, r := range repo.db.resources {
		items = append(items, *r)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}
