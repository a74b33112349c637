package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/assessment"
	"github.com/trezcool/shule/core/remedial"
	"github.com/trezcool/shule/core/resource"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
)

// seed loads a small demo dataset: an admin, a teacher, two students with
// an assessment each, a remedial plan and a shared resource. Existing users
// and students are reused so the command can be re-run.
func (cli *commandLine) seed() error {
	ctx := context.Background()

	teacher, err := cli.seedUser(ctx, user.NewUser{
		Name:     "Mrs. Sharma",
		Email:    "teacher@school.org",
		Password: "TeacherPass#1",
		Role:     string(user.RoleTeacher),
	})
	if err != nil {
		return err
	}
	if _, err = cli.seedUser(ctx, user.NewUser{
		Name:     "System Admin",
		Email:    "admin@school.org",
		Password: "AdminPass#1",
		Role:     string(user.RoleAdmin),
	}); err != nil {
		return err
	}

	std1, err := cli.seedStudent(ctx, student.NewStudent{Name: "Aarav Kumar", Class: "5A"})
	if err != nil {
		return err
	}
	std2, err := cli.seedStudent(ctx, student.NewStudent{Name: "Ananya Gupta", Class: "5B"})
	if err != nil {
		return err
	}

	if _, err = cli.assSvc.Create(ctx, assessment.NewAssessment{
		StudentID: std1.ID,
		Subject:   "Mathematics",
		Score:     48,
		Date:      "2025-01-15",
	}); err != nil {
		return errors.Wrap(err, "seeding assessment")
	}
	if _, err = cli.assSvc.Create(ctx, assessment.NewAssessment{
		StudentID: std2.ID,
		Subject:   "English",
		Score:     76,
		Date:      "2025-01-12",
	}); err != nil {
		return errors.Wrap(err, "seeding assessment")
	}

	plan, err := cli.remSvc.Assign(ctx, remedial.NewPlan{
		StudentID:   std1.ID,
		PlanDetails: "Phonics practice 20 min daily, visual aids for fractions, weekly teacher check-ins",
		AssignedBy:  teacher.Email,
	})
	if err != nil {
		return errors.Wrap(err, "seeding remedial plan")
	}
	if _, err = cli.remSvc.UpdateProgress(ctx, plan.ID, 10); err != nil {
		return errors.Wrap(err, "seeding remedial plan")
	}

	if _, err = cli.resSvc.Create(ctx, resource.NewResource{
		Title:       "Fraction Tiles Activity",
		Description: "Hands-on visual activity using fraction tiles to support conceptual understanding.",
		Method:      "Visual Aids",
		UploadedBy:  teacher.Email,
	}); err != nil {
		return errors.Wrap(err, "seeding resource")
	}

	fmt.Println("Seed complete.")
	return nil
}

func (cli *commandLine) seedUser(ctx context.Context, nu user.NewUser) (user.User, error) {
	usr, err := cli.usrSvc.GetByEmail(ctx, nu.Email)
	switch errors.Cause(err) {
	case nil:
		return usr, nil
	case user.ErrNotFound:
		usr, err = cli.usrSvc.Create(ctx, nu)
		return usr, errors.Wrap(err, "seeding user")
	default:
		return user.User{}, err
	}
}

func (cli *commandLine) seedStudent(ctx context.Context, ns student.NewStudent) (student.Student, error) {
	students, err := cli.stdSvc.QueryAll(ctx)
	if err != nil {
		return student.Student{}, err
	}
	for _, std := range students {
		if std.Name == ns.Name {
			return std, nil
		}
	}
	std, err := cli.stdSvc.Create(ctx, ns)
	return std, errors.Wrap(err, "seeding student")
}
