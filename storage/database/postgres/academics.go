package pgrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/assessment"
	"github.com/trezcool/shule/core/remedial"
	"github.com/trezcool/shule/core/resource"
	"github.com/trezcool/shule/storage/database"
)

type assessmentRepository struct {
	lazy *database.Lazy
}

var _ assessment.Repository = (*assessmentRepository)(nil)

func NewAssessmentRepository(lazy *database.Lazy) *assessmentRepository {
	return &assessmentRepository{lazy: lazy}
}

func (repo assessmentRepository) CreateAssessment(ctx context.Context, a assessment.Assessment) (assessment.Assessment, error) {
	db, err := repo.lazy.Get()
	if err != nil {
		return assessment.Assessment{}, err
	}

	_, err = db.NamedExecContext(ctx, `
		INSERT INTO assessment (id, student_id, subject, score, date, created_at)
		VALUES (:id, :student_id, :subject, :score, :date, :created_at)`,
		a,
	)
	if err != nil {
		return assessment.Assessment{}, errors.Wrap(err, "inserting assessment")
	}
	return a, nil
}

func (repo assessmentRepository) QueryAssessments(ctx context.Context, studentID string) ([]assessment.Assessment, error) {
	db, err := repo.lazy.Get()
	if err != nil {
		return nil, err
	}

	var items []assessment.Assessment
	if studentID != "" {
		err = db.SelectContext(ctx, &items,
			`SELECT * FROM assessment WHERE student_id = $1 ORDER BY date DESC`, studentID)
	} else {
		err = db.SelectContext(ctx, &items, `SELECT * FROM assessment ORDER BY date DESC`)
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying assessments")
	}
	return items, nil
}

type remedialRepository struct {
	lazy *database.Lazy
}

var _ remedial.Repository = (*remedialRepository)(nil)

func NewRemedialRepository(lazy *database.Lazy) *remedialRepository {
	return &remedialRepository{lazy: lazy}
}

func (repo remedialRepository) CreatePlan(ctx context.Context, p remedial.Plan) (remedial.Plan, error) {
	db, err := repo.lazy.Get()
	if err != nil {
		return remedial.Plan{}, err
	}

	_, err = db.NamedExecContext(ctx, `
		INSERT INTO remedial_plan (id, student_id, plan_details, assigned_by, progress, created_at, updated_at)
		VALUES (:id, :student_id, :plan_details, :assigned_by, :progress, :created_at, :updated_at)`,
		p,
	)
	if err != nil {
		return remedial.Plan{}, errors.Wrap(err, "inserting remedial plan")
	}
	return p, nil
}

func (repo remedialRepository) QueryPlans(ctx context.Context, studentID string) ([]remedial.Plan, error) {
	db, err := repo.lazy.Get()
	if err != nil {
		return nil, err
	}

	var items []remedial.Plan
	if studentID != "" {
		err = db.SelectContext(ctx, &items,
			`SELECT * FROM remedial_plan WHERE student_id = $1 ORDER BY created_at DESC`, studentID)
	} else {
		err = db.SelectContext(ctx, &items, `SELECT * FROM remedial_plan ORDER BY created_at DESC`)
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying remedial plans")
	}
	return items, nil
}

func (repo remedialRepository) UpdatePlanProgress(ctx context.Context, id string, progress int) (remedial.Plan, error) {
	db, err := repo.lazy.Get()
	if err != nil {
		return remedial.Plan{}, err
	}

	var p remedial.Plan
	err = db.GetContext(ctx, &p, `
		UPDATE remedial_plan SET progress = $1, updated_at = now()
		WHERE id = $2 RETURNING *`, progress, id)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return remedial.Plan{}, remedial.ErrNotFound
		}
		return remedial.Plan{}, errors.Wrap(err, "updating remedial plan progress")
	}
	return p, nil
}

type resourceRepository struct {
	lazy *database.Lazy
}

var _ resource.Repository = (*resourceRepository)(nil)

func NewResourceRepository(lazy *database.Lazy) *resourceRepository {
	return &resourceRepository{lazy: lazy}
}

func (repo resourceRepository) CreateResource(ctx context.Context, r resource.Resource) (resource.Resource, error) {
	db, err := repo.lazy.Get()
	if err != nil {
		return resource.Resource{}, err
	}

	_, err = db.NamedExecContext(ctx, `
		INSERT INTO resource (id, title, description, method, uploaded_by, created_at)
		VALUES (:id, :title, :description, :method, :uploaded_by, :created_at)`,
		r,
	)
	if err != nil {
		return resource.Resource{}, errors.Wrap(err, "inserting resource")
	}
	return r, nil
}

func (repo resourceRepository) QueryAllResources(ctx context.Context) ([]resource.Resource, error) {
	db, err := repo.lazy.Get()
	if err != nil {
		return nil, err
	}

	var items []resource.Resource
	err = db.SelectContext(ctx, &items, `SELECT * FROM resource ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying resources")
	}
	return items, nil
}
