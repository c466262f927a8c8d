package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dan9191/task-service/internal/apperrors"
	"github.com/Dan9191/task-service/internal/auth"
	"github.com/Dan9191/task-service/internal/models"
)

func newTestAuthService(t *testing.T) (*AuthService, *memStore, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	store := newMemStore()
	svc := NewAuthService(
		store,
		auth.NewPasswordHasher(bcrypt.MinCost),
		auth.NewTokenService("test-secret", time.Hour, 30*time.Second),
		log,
	)
	return svc, store, hook
}

func TestRegister_Success(t *testing.T) {
	svc, store, hook := newTestAuthService(t)

	user, err := svc.Register(context.Background(), "A@X.com", "pw123456")
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, models.RoleStandard, user.Role)
	assert.NotEqual(t, "pw123456", user.PasswordHash)

	stored, ok := store.users["a@x.com"]
	require.True(t, ok)
	assert.Equal(t, user.ID, stored.ID)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "User registered", entry.Message)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	for _, e := range hook.AllEntries() {
		assert.NotContains(t, e.Message, "pw123456")
	}
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)

	for _, email := range []string{"a@x.com", " A@x.COM "} {
		_, err = svc.Register(ctx, email, "other-password")
		assert.ErrorIs(t, err, apperrors.ErrConflict, email)
	}
}

func TestRegister_PasswordTooLong(t *testing.T) {
	svc, store, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), "a@x.com", strings.Repeat("p", 73))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Empty(t, store.users)
}

func TestRegister_StoreFailureIsInternal(t *testing.T) {
	svc, store, _ := newTestAuthService(t)
	store.err = errors.New("connection refused")

	_, err := svc.Register(context.Background(), "a@x.com", "pw123456")
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.Equal(t, "internal server error", apperrors.Message(err))
}

func TestLogin_UnknownEmailAndWrongPasswordLookTheSame(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)

	_, errUnknown := svc.Login(ctx, "nobody@x.com", "pw123456")
	_, errWrong := svc.Login(ctx, "a@x.com", "wrong")

	assert.ErrorIs(t, errUnknown, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, errWrong, apperrors.ErrUnauthorized)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestLogin_ThenWhoAmI(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)

	issued, err := svc.Login(ctx, "A@x.com", "pw123456")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.True(t, issued.ExpiresAt.After(time.Now()))

	identity, err := svc.WhoAmI(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, models.RoleStandard, identity.Role)
}

func TestLogin_StoreFailureIsInternal(t *testing.T) {
	svc, store, _ := newTestAuthService(t)
	store.err = errors.New("timeout")

	_, err := svc.Login(context.Background(), "a@x.com", "pw123456")
	assert.ErrorIs(t, err, apperrors.ErrInternal)
}

func TestWhoAmI_RejectsGarbage(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.WhoAmI(context.Background(), tok)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	}
}
