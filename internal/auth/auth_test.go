package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/genmesh/meshstore/internal/keyval"
	"github.com/genmesh/meshstore/internal/logging"
	"github.com/genmesh/meshstore/internal/models"
	"github.com/genmesh/meshstore/internal/store"
)

var testSecret = []byte("test-session-secret")

func newTestService(t *testing.T) (*Service, *store.Store, *keyval.File) {
	t.Helper()
	dir := t.TempDir()
	kv, err := keyval.Open(filepath.Join(dir, "local-slots.json"))
	require.NoError(t, err)

	logger := logging.New("error")
	st, err := store.Open(kv, dir, logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return NewService(st, kv, testSecret, logger), st, kv
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, "buyer@example.com", "secret123")
	require.NoError(t, err)
	require.NotZero(t, sess.ID)
	assert.Equal(t, "user", sess.Role)

	_, err = svc.Register(ctx, "buyer@example.com", "other-password")
	require.ErrorIs(t, err, ErrDuplicateUser)

	var count int64
	require.NoError(t, st.Read(func(db *gorm.DB) error {
		return db.Model(&models.User{}).Where("email = ?", "buyer@example.com").Count(&count).Error
	}))
	assert.Equal(t, int64(1), count)
}

func TestLoginSharesInvalidCredentialsMessage(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "buyer@example.com", "secret123")
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "buyer@example.com", "not-the-password")
	_, unknownEmail := svc.Login(ctx, "nobody@example.com", "secret123")

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	// The property is message equality, not just shared failure.
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestIsAdmin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, store.AdminEmail, "admin123")
	require.NoError(t, err)
	assert.True(t, svc.IsAdmin())

	_, err = svc.Register(ctx, "buyer@example.com", "secret123")
	require.NoError(t, err)
	assert.False(t, svc.IsAdmin())
}

func TestLogoutClearsSessionAndMarker(t *testing.T) {
	svc, _, kv := newTestService(t)

	_, err := svc.Register(context.Background(), "buyer@example.com", "secret123")
	require.NoError(t, err)
	require.NotNil(t, svc.Current())
	_, ok := kv.Get(MarkerKey)
	require.True(t, ok)

	require.NoError(t, svc.Logout())
	assert.Nil(t, svc.Current())
	assert.False(t, svc.IsAdmin())
	_, ok = kv.Get(MarkerKey)
	assert.False(t, ok)
}

func TestRestoreValidMarker(t *testing.T) {
	svc, st, kv := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "buyer@example.com", "secret123")
	require.NoError(t, err)

	restored := NewService(st, kv, testSecret, logging.New("error"))
	restored.Restore(ctx)

	sess := restored.Current()
	require.NotNil(t, sess)
	assert.Equal(t, "buyer@example.com", sess.Email)
	assert.Equal(t, "user", sess.Role)
}

func TestRestoreForgedMarkerDiscarded(t *testing.T) {
	svc, _, kv := newTestService(t)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "1",
		"email": store.AdminEmail,
		"role":  "admin",
	})
	signed, err := forged.SignedString([]byte("attacker-secret"))
	require.NoError(t, err)
	require.NoError(t, kv.Set(MarkerKey, signed))

	svc.Restore(context.Background())

	assert.Nil(t, svc.Current())
	_, ok := kv.Get(MarkerKey)
	assert.False(t, ok, "forged marker should be discarded")
}

func TestRestoreMalformedMarkerDiscarded(t *testing.T) {
	svc, _, kv := newTestService(t)
	require.NoError(t, kv.Set(MarkerKey, "not-a-token"))

	svc.Restore(context.Background())

	assert.Nil(t, svc.Current())
	_, ok := kv.Get(MarkerKey)
	assert.False(t, ok)
}

func TestRestoreStaleMarkerDiscarded(t *testing.T) {
	svc, st, kv := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "buyer@example.com", "secret123")
	require.NoError(t, err)

	// The account disappears while the marker survives.
	require.NoError(t, st.Write(func(db *gorm.DB) error {
		return db.Where("email = ?", "buyer@example.com").Delete(&models.User{}).Error
	}))

	restored := NewService(st, kv, testSecret, logging.New("error"))
	restored.Restore(ctx)

	assert.Nil(t, restored.Current())
	_, ok := kv.Get(MarkerKey)
	assert.False(t, ok)
}
