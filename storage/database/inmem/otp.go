package inmemdb

import (
	"context"

	"github.com/trezcool/shule/core/otp"
)

type otpRepository struct {
	db *DB
}

var _ otp.Repository = (*otpRepository)(nil)

func NewOTPRepository(db *DB) *otpRepository {
	return &otpRepository{db: db}
}

func (repo *otpRepository) CreateCode(_ context.Context, code otp.OneTimeCode) (otp.OneTimeCode, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.codes[code.ID] = &code
	return code, nil
}

func (repo *otpRepository) GetCodeByEmail(_ context.Context, email string) (otp.OneTimeCode, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var newest *otp.OneTimeCode
	for _, code := range repo.db.codes {
		if code.Email != email {
			continue
		}
		if newest == nil || code.CreatedAt.After(newest.CreatedAt) {
			newest = code
		}
	}
	if newest == nil {
		return otp.OneTimeCode{}, otp.ErrNotFound
	}
	return *newest, nil
}

func (repo *otpRepository) UpdateCode(_ context.Context, code otp.OneTimeCode) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.codes[code.ID]; !ok {
		return otp.ErrNotFound
	}
	repo.db.codes[code.ID] = &code
	return nil
}

func (repo *otpRepository) DeleteCodesByEmail(_ context.Context, email string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for id, code := range repo.db.codes {
		if code.Email == email {
			delete(repo.db.codes, id)
		}
	}
	return nil
}
