package session_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanVergara-9/miservicio-api/internal/domain"
	"github.com/JuanVergara-9/miservicio-api/internal/gateway"
	"github.com/JuanVergara-9/miservicio-api/internal/session"
)

func newManager() (*session.Manager, gateway.Client) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw := gateway.NewMock("test-secret", time.Hour, log)
	return session.NewManager(gw, log), gw
}

func TestSessionLifecycle(t *testing.T) {
	m, _ := newManager()
	ctx := context.Background()

	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.Current())

	sess, err := m.Login(ctx, "carlos@demo.com", "demo123")
	require.NoError(t, err)
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, sess.Token, m.Token())
	assert.Equal(t, "carlos@demo.com", m.Current().Email)

	m.Logout()
	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.Current())
}

func TestUpgradePersistsRenewedCredential(t *testing.T) {
	m, _ := newManager()
	ctx := context.Background()

	_, err := m.Register(ctx, domain.RegisterInput{
		FirstName: "Nueva", LastName: "Cuenta",
		Email: "nueva@demo.com", Password: "supersecreta",
	})
	require.NoError(t, err)
	before := m.Token()

	require.NoError(t, m.UpgradeToProviderRole(ctx))
	assert.NotEqual(t, before, m.Token(), "the renewed token replaces the old one")
	assert.Equal(t, domain.RoleProvider, m.Current().Role)

	// The replaced credential is the one later calls must use.
	user, err := m.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleProvider, user.Role)
}

func TestUpgradeWithoutSession(t *testing.T) {
	m, _ := newManager()
	assert.Error(t, m.UpgradeToProviderRole(context.Background()))
}

func TestHandleUnauthorizedClearsState(t *testing.T) {
	m, _ := newManager()
	_, err := m.Login(context.Background(), "ana@demo.com", "demo123")
	require.NoError(t, err)

	m.HandleUnauthorized()
	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.Current())

	// No credential left means refresh fails instead of retrying.
	_, err = m.Refresh(context.Background())
	assert.Error(t, err)
}

func TestRejectedCredentialIsDropped(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	// A negative TTL issues tokens that are already expired, so the next
	// authenticated call gets a 401 from the backend.
	gw := gateway.NewMock("test-secret", -time.Minute, log)
	m := session.NewManager(gw, log)
	ctx := context.Background()

	_, err := m.Login(ctx, "carlos@demo.com", "demo123")
	require.NoError(t, err)
	require.True(t, m.IsAuthenticated())

	_, err = m.Refresh(ctx)
	require.Error(t, err)
	assert.False(t, m.IsAuthenticated(), "the rejected credential is dropped")
	assert.Empty(t, m.Token())
	assert.Nil(t, m.Current())
}

func TestResumeAdoptsExistingToken(t *testing.T) {
	m, gw := newManager()
	ctx := context.Background()

	sess, err := gw.Login(ctx, "luciano@demo.com", "demo123")
	require.NoError(t, err)

	user, err := m.Resume(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "luciano@demo.com", user.Email)
	assert.True(t, user.IsProvider)
	assert.Equal(t, sess.Token, m.Token())
}
