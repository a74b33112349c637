package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var (
	// errors
	ErrNotFound        = errors.New("OTP not found or expired")
	ErrExpired         = errors.New("OTP has expired")
	ErrTooManyAttempts = errors.New("too many attempts, please request a new OTP")
	ErrInvalidCode     = errors.New("invalid OTP")
	ErrNotVerified     = errors.New("OTP not verified")

	nowFunc = time.Now // mockable
)

// DeliveryError wraps a mail transport failure. The requested code record
// persists so the client may retry via resend.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to send OTP: %v", e.Err)
}

type (
	Repository interface {
		CreateCode(ctx context.Context, code OneTimeCode) (OneTimeCode, error)
		// GetCodeByEmail returns the latest live code for email; ErrNotFound if none.
		GetCodeByEmail(ctx context.Context, email string) (OneTimeCode, error)
		UpdateCode(ctx context.Context, code OneTimeCode) error
		DeleteCodesByEmail(ctx context.Context, email string) error
	}

	Service interface {
		// Request invalidates any live code for email, stores a fresh one
		// and dispatches it by mail.
		Request(ctx context.Context, email string) error
		// Verify checks a submitted code and flips the record's verified
		// flag on match. The record survives for a later consumer.
		Verify(ctx context.Context, email, code string) error
		// Check is the password-reset precondition: the live code must be
		// unexpired, match, and have been verified. Attempts are untouched.
		Check(ctx context.Context, email, code string) error
		// Consume removes the record; called after a successful reset.
		Consume(ctx context.Context, email string) error
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

// generateCode returns a uniformly random 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", errors.Wrap(err, "reading random source")
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func (svc *service) Request(ctx context.Context, email string) error {
	email = core.CleanString(email, true /* lower */)

	code, err := generateCode()
	if err != nil {
		return err
	}

	// delete-then-insert: at most one live code per email. The two store
	// calls are not transactional; concurrent requests for one email may
	// briefly leave two rows and last-write-wins (GetCodeByEmail returns
	// the newest).
	if err = svc.repo.DeleteCodesByEmail(ctx, email); err != nil {
		return errors.Wrap(err, "invalidating previous OTP")
	}

	now := nowFunc().UTC()
	record := OneTimeCode{
		ID:        uuid.New().String(),
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(svc.conf.OTP.ExpirationDelta),
		CreatedAt: now,
	}
	if _, err = svc.repo.CreateCode(ctx, record); err != nil {
		return errors.Wrap(err, "storing OTP")
	}

	// the record persists on delivery failure; the client may retry resend
	if err = svc.sendCodeMail(email, code); err != nil {
		return &DeliveryError{Err: err}
	}
	return nil
}

func (svc *service) Verify(ctx context.Context, email, code string) error {
	email = core.CleanString(email, true /* lower */)

	record, err := svc.repo.GetCodeByEmail(ctx, email)
	if err != nil {
		return err
	}

	if record.Expired(nowFunc().UTC()) {
		_ = svc.repo.DeleteCodesByEmail(ctx, email)
		return ErrExpired
	}

	if record.Attempts >= svc.conf.OTP.MaxAttempts {
		_ = svc.repo.DeleteCodesByEmail(ctx, email)
		return ErrTooManyAttempts
	}

	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) == 0 {
		record.Attempts++
		if err = svc.repo.UpdateCode(ctx, record); err != nil {
			return errors.Wrap(err, "recording failed attempt")
		}
		return ErrInvalidCode
	}

	record.Verified = true
	if err = svc.repo.UpdateCode(ctx, record); err != nil {
		return errors.Wrap(err, "marking OTP verified")
	}
	return nil
}

func (svc *service) Check(ctx context.Context, email, code string) error {
	email = core.CleanString(email, true /* lower */)

	record, err := svc.repo.GetCodeByEmail(ctx, email)
	if err != nil {
		return err
	}

	if record.Expired(nowFunc().UTC()) {
		_ = svc.repo.DeleteCodesByEmail(ctx, email)
		return ErrExpired
	}

	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) == 0 {
		return ErrInvalidCode
	}

	if !record.Verified {
		return ErrNotVerified
	}
	return nil
}

func (svc *service) Consume(ctx context.Context, email string) error {
	return svc.repo.DeleteCodesByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *service) sendCodeMail(email, code string) error {
	expiry := int(svc.conf.OTP.ExpirationDelta / time.Minute)
	msg := &core.EmailMessage{
		To:      []mail.Address{{Address: email}},
		Subject: fmt.Sprintf("Your OTP for %s", svc.conf.AppName),
		TextContent: fmt.Sprintf(
			"Your One-Time Password (OTP) is: %s\n\n"+
				"This OTP will expire in %d minutes.\n"+
				"If you didn't request this, please ignore this email.",
			code, expiry,
		),
		HTMLContent: fmt.Sprintf(
			`<h2>Welcome to %s</h2>
<p>Your One-Time Password (OTP) is:</p>
<h1 style="font-size: 32px; font-weight: bold; letter-spacing: 2px;">%s</h1>
<p>This OTP will expire in %d minutes.</p>
<p>If you didn't request this, please ignore this email.</p>`,
			svc.conf.AppName, code, expiry,
		),
	}
	return svc.mailSvc.SendMessage(msg)
}
