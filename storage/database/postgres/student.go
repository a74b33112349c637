package pgrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/storage/database"
)

type studentRepository struct {
	lazy *database.Lazy
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(lazy *database.Lazy) *studentRepository {
	return &studentRepository{lazy: lazy}
}

func trapStudentNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	db, err := repo.lazy.Get()
	if err != nil {
		return student.Student{}, err
	}

	_, err = db.NamedExecContext(ctx, `
		INSERT INTO student (id, name, class, user_id, created_at, updated_at)
		VALUES (:id, :name, :class, :user_id, :created_at, :updated_at)`,
		std,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	db, err := repo.lazy.Get()
	if err != nil {
		return nil, err
	}

	var students []student.Student
	err = db.SelectContext(ctx, &students, `SELECT * FROM student ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	db, err := repo.lazy.Get()
	if err != nil {
		return student.Student{}, err
	}

	var std student.Student
	if err = db.GetContext(ctx, &std, `SELECT * FROM student WHERE id = $1`, id); err != nil {
		return student.Student{}, trapStudentNoRowsErr(err, "getting student by id")
	}
	return std, nil
}

func (repo studentRepository) GetStudentByUserID(ctx context.Context, userID string) (student.Student, error) {
	db, err := repo.lazy.Get()
	if err != nil {
		return student.Student{}, err
	}

	var std student.Student
	if err = db.GetContext(ctx, &std, `SELECT * FROM student WHERE user_id = $1`, userID); err != nil {
		return student.Student{}, trapStudentNoRowsErr(err, "getting student by user id")
	}
	return std, nil
}

// SetStudentUser is a no-op when the student does not exist, matching the
// unconditional unlink contract.
func (repo studentRepository) SetStudentUser(ctx context.Context, id string, userID null.String) error {
	db, err := repo.lazy.Get()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`UPDATE student SET user_id = $1, updated_at = now() WHERE id = $2`, userID, id)
	return errors.Wrap(err, "setting student user")
}

func (repo studentRepository) DeleteStudent(ctx context.Context, id string) error {
	db, err := repo.lazy.Get()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `DELETE FROM student WHERE id = $1`, id)
	return errors.Wrap(err, "deleting student")
}
