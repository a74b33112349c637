package otp

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	emailsvc "github.com/trezcool/shule/services/email"
)

type memRepo struct {
	codes map[string]OneTimeCode
}

var _ Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{codes: make(map[string]OneTimeCode)}
}

func (r *memRepo) CreateCode(_ context.Context, code OneTimeCode) (OneTimeCode, error) {
	r.codes[code.ID] = code
	return code, nil
}

func (r *memRepo) GetCodeByEmail(_ context.Context, email string) (OneTimeCode, error) {
	var newest *OneTimeCode
	for id := range r.codes {
		code := r.codes[id]
		if code.Email != email {
			continue
		}
		if newest == nil || code.CreatedAt.After(newest.CreatedAt) {
			newest = &code
		}
	}
	if newest == nil {
		return OneTimeCode{}, ErrNotFound
	}
	return *newest, nil
}

func (r *memRepo) UpdateCode(_ context.Context, code OneTimeCode) error {
	if _, ok := r.codes[code.ID]; !ok {
		return ErrNotFound
	}
	r.codes[code.ID] = code
	return nil
}

func (r *memRepo) DeleteCodesByEmail(_ context.Context, email string) error {
	for id, code := range r.codes {
		if code.Email == email {
			delete(r.codes, id)
		}
	}
	return nil
}

func (r *memRepo) count(email string) int {
	var n int
	for _, code := range r.codes {
		if code.Email == email {
			n++
		}
	}
	return n
}

type failMailer struct{}

func (failMailer) SendMessage(*core.EmailMessage) error { return errors.New("smtp down") }

func setup(t *testing.T) (Service, *memRepo, *core.Config) {
	t.Helper()
	conf := core.NewTestConfig()
	repo := newMemRepo()
	return NewService(repo, emailsvc.NewConsoleServiceMock(conf), conf), repo, conf
}

var codeRx = regexp.MustCompile(`^\d{6}$`)

func TestService_Request(t *testing.T) {
	ctx := context.Background()
	email := "jane@school.org"

	t.Run("stores and mails a 6-digit code", func(t *testing.T) {
		conf := core.NewTestConfig()
		repo := newMemRepo()
		mailer := emailsvc.NewConsoleServiceMock(conf)
		svc := NewService(repo, mailer, conf)

		require.NoError(t, svc.Request(ctx, email))

		record, err := repo.GetCodeByEmail(ctx, email)
		require.NoError(t, err)
		assert.Regexp(t, codeRx, record.Code)
		assert.False(t, record.Verified)
		assert.Equal(t, 0, record.Attempts)
		assert.WithinDuration(t, time.Now().UTC().Add(conf.OTP.ExpirationDelta), record.ExpiresAt, time.Minute)

		msgs := mailer.SentMessages()
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0].TextContent, record.Code)
		assert.Contains(t, msgs[0].HTMLContent, record.Code)
		require.Len(t, msgs[0].To, 1)
		assert.Equal(t, email, msgs[0].To[0].Address)
	})

	t.Run("re-request invalidates the previous code", func(t *testing.T) {
		svc, repo, _ := setup(t)

		require.NoError(t, svc.Request(ctx, email))
		first, err := repo.GetCodeByEmail(ctx, email)
		require.NoError(t, err)

		require.NoError(t, svc.Request(ctx, email))
		second, err := repo.GetCodeByEmail(ctx, email)
		require.NoError(t, err)

		assert.Equal(t, 1, repo.count(email))
		assert.NotEqual(t, first.ID, second.ID)

		if first.Code != second.Code {
			assert.Equal(t, ErrInvalidCode, svc.Verify(ctx, email, first.Code))
		}
		assert.NoError(t, svc.Verify(ctx, email, second.Code))
	})

	t.Run("email is normalized", func(t *testing.T) {
		svc, repo, _ := setup(t)

		require.NoError(t, svc.Request(ctx, "  Jane@School.ORG "))
		record, err := repo.GetCodeByEmail(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, email, record.Email)
	})

	t.Run("delivery failure keeps the record", func(t *testing.T) {
		conf := core.NewTestConfig()
		repo := newMemRepo()
		svc := NewService(repo, failMailer{}, conf)

		err := svc.Request(ctx, email)
		var dErr *DeliveryError
		require.True(t, errors.As(err, &dErr), "want DeliveryError, got %v", err)

		record, err := repo.GetCodeByEmail(ctx, email)
		require.NoError(t, err)
		assert.NoError(t, svc.Verify(ctx, email, record.Code))
	})
}

func TestService_Verify(t *testing.T) {
	ctx := context.Background()
	email := "jane@school.org"

	t.Run("no live code", func(t *testing.T) {
		svc, _, _ := setup(t)
		assert.Equal(t, ErrNotFound, svc.Verify(ctx, email, "123456"))
	})

	t.Run("expired code is purged", func(t *testing.T) {
		svc, repo, conf := setup(t)
		require.NoError(t, svc.Request(ctx, email))

		nowFunc = func() time.Time { return time.Now().Add(conf.OTP.ExpirationDelta + time.Second) }
		defer func() { nowFunc = time.Now }()

		record, err := repo.GetCodeByEmail(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, ErrExpired, svc.Verify(ctx, email, record.Code))
		assert.Equal(t, 0, repo.count(email))
	})

	t.Run("attempts are capped", func(t *testing.T) {
		svc, repo, conf := setup(t)
		require.NoError(t, svc.Request(ctx, email))

		for i := 0; i < conf.OTP.MaxAttempts; i++ {
			assert.Equal(t, ErrInvalidCode, svc.Verify(ctx, email, "000000"))
		}
		assert.Equal(t, ErrTooManyAttempts, svc.Verify(ctx, email, "000000"))
		// the record is gone; even the right code cannot revive it
		assert.Equal(t, 0, repo.count(email))
		assert.Equal(t, ErrNotFound, svc.Verify(ctx, email, "000000"))
	})

	t.Run("match flips the verified flag", func(t *testing.T) {
		svc, repo, _ := setup(t)
		require.NoError(t, svc.Request(ctx, email))

		record, err := repo.GetCodeByEmail(ctx, email)
		require.NoError(t, err)
		require.NoError(t, svc.Verify(ctx, email, record.Code))

		record, err = repo.GetCodeByEmail(ctx, email)
		require.NoError(t, err)
		assert.True(t, record.Verified)
	})
}

func TestService_Check(t *testing.T) {
	ctx := context.Background()
	email := "jane@school.org"

	t.Run("requires prior verification", func(t *testing.T) {
		svc, repo, _ := setup(t)
		require.NoError(t, svc.Request(ctx, email))
		record, err := repo.GetCodeByEmail(ctx, email)
		require.NoError(t, err)

		assert.Equal(t, ErrNotVerified, svc.Check(ctx, email, record.Code))

		require.NoError(t, svc.Verify(ctx, email, record.Code))
		assert.NoError(t, svc.Check(ctx, email, record.Code))
	})

	t.Run("mismatch does not burn an attempt", func(t *testing.T) {
		svc, repo, _ := setup(t)
		require.NoError(t, svc.Request(ctx, email))

		assert.Equal(t, ErrInvalidCode, svc.Check(ctx, email, "000000"))

		record, err := repo.GetCodeByEmail(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, 0, record.Attempts)
	})

	t.Run("expired code is purged", func(t *testing.T) {
		svc, repo, conf := setup(t)
		require.NoError(t, svc.Request(ctx, email))

		nowFunc = func() time.Time { return time.Now().Add(conf.OTP.ExpirationDelta + time.Second) }
		defer func() { nowFunc = time.Now }()

		record, err := repo.GetCodeByEmail(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, ErrExpired, svc.Check(ctx, email, record.Code))
		assert.Equal(t, 0, repo.count(email))
	})
}

func TestService_Consume(t *testing.T) {
	ctx := context.Background()
	email := "jane@school.org"

	svc, repo, _ := setup(t)
	require.NoError(t, svc.Request(ctx, email))
	require.NoError(t, svc.Consume(ctx, email))
	assert.Equal(t, 0, repo.count(email))
	assert.Equal(t, ErrNotFound, svc.Check(ctx, email, "123456"))
}
