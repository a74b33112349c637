package user

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/otp"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		UpdateUserPassword(ctx context.Context, id string, hash []byte) error
	}

	Service interface {
		// Signup registers a new account and returns it; ErrEmailExists on
		// a duplicate email.
		Signup(ctx context.Context, nu NewUser) (User, error)
		// Create persists an identity without signup-level checks; used by
		// the linking flow and the admin CLI.
		Create(ctx context.Context, nu NewUser) (User, error)
		// Authenticate returns a uniform ErrInvalidCredentials whether the
		// email is unknown or the password mismatches.
		Authenticate(ctx context.Context, email, pwd string) (User, error)
		// ResetPassword requires a live, matching, *verified* OTP for the
		// email; on success the password hash is replaced and the OTP
		// record consumed.
		ResetPassword(ctx context.Context, rp ResetUserPassword) error
		GetByID(ctx context.Context, id string) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
	}

	service struct {
		repo   Repository
		otpSvc otp.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, otpSvc otp.Service) Service {
	return &service{
		repo:   repo,
		otpSvc: otpSvc,
	}
}

func (svc *service) Signup(ctx context.Context, nu NewUser) (User, error) {
	if _, err := svc.repo.GetUserByEmail(ctx, nu.Email); err == nil {
		return User{}, ErrEmailExists
	} else if errors.Cause(err) != ErrNotFound {
		return User{}, errors.Wrap(err, "checking email uniqueness")
	}
	return svc.Create(ctx, nu)
}

func (svc *service) Create(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		ID:        uuid.New().String(),
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      ParseRole(nu.Role),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *service) Authenticate(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}

func (svc *service) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	if err := svc.otpSvc.Check(ctx, rp.Email, rp.Code); err != nil {
		return err
	}

	usr, err := svc.GetByEmail(ctx, rp.Email)
	if err != nil {
		return err
	}

	if err = usr.SetPassword(rp.Password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	if err = svc.repo.UpdateUserPassword(ctx, usr.ID, usr.PasswordHash); err != nil {
		return errors.Wrap(err, "updating password")
	}

	if err = svc.otpSvc.Consume(ctx, rp.Email); err != nil {
		return errors.Wrap(err, "consuming OTP")
	}
	return nil
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}
