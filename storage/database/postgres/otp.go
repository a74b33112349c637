package pgrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/otp"
	"github.com/trezcool/shule/storage/database"
)

type otpRepository struct {
	lazy *database.Lazy
}

var _ otp.Repository = (*otpRepository)(nil) // interface compliance check

func NewOTPRepository(lazy *database.Lazy) *otpRepository {
	return &otpRepository{lazy: lazy}
}

func (repo otpRepository) CreateCode(ctx context.Context, code otp.OneTimeCode) (otp.OneTimeCode, error) {
	db, err := repo.lazy.Get()
	if err != nil {
		return otp.OneTimeCode{}, err
	}

	_, err = db.NamedExecContext(ctx, `
		INSERT INTO one_time_code (id, email, code, expires_at, attempts, verified, created_at)
		VALUES (:id, :email, :code, :expires_at, :attempts, :verified, :created_at)`,
		code,
	)
	if err != nil {
		return otp.OneTimeCode{}, errors.Wrap(err, "inserting OTP")
	}
	return code, nil
}

// GetCodeByEmail returns the newest code for email so that a racing
// duplicate request resolves last-write-wins.
func (repo otpRepository) GetCodeByEmail(ctx context.Context, email string) (otp.OneTimeCode, error) {
	db, err := repo.lazy.Get()
	if err != nil {
		return otp.OneTimeCode{}, err
	}

	var code otp.OneTimeCode
	err = db.GetContext(ctx, &code,
		`SELECT * FROM one_time_code WHERE email = $1 ORDER BY created_at DESC LIMIT 1`, email)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return otp.OneTimeCode{}, otp.ErrNotFound
		}
		return otp.OneTimeCode{}, errors.Wrap(err, "getting OTP by email")
	}
	return code, nil
}

func (repo otpRepository) UpdateCode(ctx context.Context, code otp.OneTimeCode) error {
	db, err := repo.lazy.Get()
	if err != nil {
		return err
	}

	_, err = db.NamedExecContext(ctx,
		`UPDATE one_time_code SET attempts = :attempts, verified = :verified WHERE id = :id`, code)
	return errors.Wrap(err, "updating OTP")
}

func (repo otpRepository) DeleteCodesByEmail(ctx context.Context, email string) error {
	db, err := repo.lazy.Get()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `DELETE FROM one_time_code WHERE email = $1`, email)
	return errors.Wrap(err, "deleting OTPs")
}
