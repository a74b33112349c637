package pgrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/storage/database"
)

type userRepository struct {
	lazy *database.Lazy
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(lazy *database.Lazy) *userRepository {
	return &userRepository{lazy: lazy}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func trapUserNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	db, err := repo.lazy.Get()
	if err != nil {
		return user.User{}, err
	}

	_, err = db.NamedExecContext(ctx, `
		INSERT INTO app_user (id, name, email, role, password_hash, created_at, updated_at)
		VALUES (:id, :name, :email, :role, :password_hash, :created_at, :updated_at)`,
		usr,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	db, err := repo.lazy.Get()
	if err != nil {
		return user.User{}, err
	}

	var usr user.User
	if err = db.GetContext(ctx, &usr, `SELECT * FROM app_user WHERE id = $1`, id); err != nil {
		return user.User{}, trapUserNoRowsErr(err, "getting user by id")
	}
	return usr, nil
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	db, err := repo.lazy.Get()
	if err != nil {
		return user.User{}, err
	}

	var usr user.User
	if err = db.GetContext(ctx, &usr, `SELECT * FROM app_user WHERE email = $1`, email); err != nil {
		return user.User{}, trapUserNoRowsErr(err, "getting user by email")
	}
	return usr, nil
}

func (repo userRepository) UpdateUserPassword(ctx context.Context, id string, hash []byte) error {
	db, err := repo.lazy.Get()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx,
		`UPDATE app_user SET password_hash = $1, updated_at = now() WHERE id = $2`, hash, id)
	if err != nil {
		return errors.Wrap(err, "updating user password")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.ErrNotFound
	}
	return nil
}
