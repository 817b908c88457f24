package gateway_test

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
	"github.com/JuanVergara-9/miservicio-api/pkg/apperror"
)

func newTestMock() *gateway.Mock {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return gateway.NewMock("test-secret", time.Hour, log)
}

func TestMockRegisterAndLogin(t *testing.T) {
	m := newTestMock()
	ctx := context.Background()

	sess, err := m.Register(ctx, domain.RegisterInput{
		FirstName: "Nueva", LastName: "Cuenta",
		Email: "Nueva@Demo.com", Password: "supersecreta",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "nueva@demo.com", sess.User.Email, "email normalized to lowercase")
	assert.Equal(t, domain.RoleClient, sess.User.Role)

	// The issued token works against Me.
	me, err := m.Me(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, me.ID)

	// And the password round-trips through login.
	again, err := m.Login(ctx, "nueva@demo.com", "supersecreta")
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, again.User.ID)

	_, err = m.Login(ctx, "nueva@demo.com", "incorrecta")
	assert.Error(t, err)
}

func TestMockRejectsDuplicateEmail(t *testing.T) {
	m := newTestMock()
	ctx := context.Background()

	_, err := m.Register(ctx, domain.RegisterInput{
		FirstName: "Otro", LastName: "Carlos",
		Email: "carlos@demo.com", Password: "supersecreta",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsEmailExists(err))
}

func TestMockDemoAccountsLogIn(t *testing.T) {
	m := newTestMock()
	sess, err := m.Login(context.Background(), "carlos@demo.com", "demo123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleProvider, sess.User.Role)
}

func TestMockRoleElevationRenewsCredential(t *testing.T) {
	m := newTestMock()
	ctx := context.Background()

	sess, err := m.Register(ctx, domain.RegisterInput{
		FirstName: "Nueva", LastName: "Cuenta",
		Email: "nueva@demo.com", Password: "supersecreta",
	})
	require.NoError(t, err)

	elevated, err := m.UpgradeRole(ctx, sess.Token, domain.RoleProvider)
	require.NoError(t, err)
	assert.NotEmpty(t, elevated.Token)
	assert.NotEqual(t, sess.Token, elevated.Token, "a renewed token is issued")
	assert.Equal(t, domain.RoleProvider, elevated.User.Role)

	me, err := m.Me(ctx, elevated.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleProvider, me.Role)
}

func TestMockCreateProviderProfile(t *testing.T) {
	m := newTestMock()
	ctx := context.Background()

	sess, err := m.Register(ctx, domain.RegisterInput{
		FirstName: "Nueva", LastName: "Cuenta",
		Email: "nueva@demo.com", Password: "supersecreta",
	})
	require.NoError(t, err)

	p, err := m.CreateProviderProfile(ctx, sess.Token, &domain.ProviderProfileInput{
		FirstName: "Nueva", LastName: "Cuenta", Phone: "2604999888",
		Birthdate: "1992-03-01", Province: "Mendoza", City: "San Rafael",
		Address: "Calle 1", NationalID: "20345678901",
		Categories: []int{1}, Subcategories: []int{101},
		Description: "Reparaciones generales de todo tipo para el hogar y comercios.",
		Attachments: []domain.FileAttachment{
			{Field: "profilePicture", Filename: "foto.png", Content: []byte{1}},
			{Field: "certificate", Filename: "mat.pdf", Content: []byte{2}},
		},
	})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Contains(t, p.ProfilePicture, "/uploads/providers/")
	assert.Contains(t, p.Certificate, "/uploads/providers/")
	assert.Empty(t, p.Portfolio)

	// The account now reports as provider.
	me, err := m.Me(ctx, sess.Token)
	require.NoError(t, err)
	assert.True(t, me.IsProvider)

	mine, err := m.MyProviderProfile(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, p.ID, mine.ID)
}

func TestMockSearchProviders(t *testing.T) {
	m := newTestMock()
	ctx := context.Background()

	t.Run("by category", func(t *testing.T) {
		out, err := m.SearchProviders(ctx, domain.ProviderSearchFilters{Category: 3})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "Ana", out[0].FirstName)
	})

	t.Run("by city substring, case-insensitive", func(t *testing.T) {
		out, err := m.SearchProviders(ctx, domain.ProviderSearchFilters{City: "rafael"})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "Carlos", out[0].FirstName)
	})

	t.Run("free text over description", func(t *testing.T) {
		out, err := m.SearchProviders(ctx, domain.ProviderSearchFilters{Query: "jardines"})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "Luciano", out[0].FirstName)
	})

	t.Run("sorted by rating", func(t *testing.T) {
		out, err := m.SearchProviders(ctx, domain.ProviderSearchFilters{SortBy: "rating"})
		require.NoError(t, err)
		require.Len(t, out, 3)
		assert.Equal(t, "Luciano", out[0].FirstName)
	})

	t.Run("pagination", func(t *testing.T) {
		out, err := m.SearchProviders(ctx, domain.ProviderSearchFilters{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, out, 1)
	})
}

func TestMockReviewFlow(t *testing.T) {
	m := newTestMock()
	ctx := context.Background()

	sess, err := m.Login(ctx, "roberto@demo.com", "demo123")
	require.NoError(t, err)

	check, err := m.CheckReviewed(ctx, sess.Token, 1)
	require.NoError(t, err)
	assert.False(t, check.HasReviewed)

	review, err := m.CreateReview(ctx, sess.Token, domain.ReviewInput{
		ProviderID: 1, Rating: 5, Comment: "Impecable",
	})
	require.NoError(t, err)
	assert.Equal(t, "Roberto Sánchez", review.UserName)

	check, err = m.CheckReviewed(ctx, sess.Token, 1)
	require.NoError(t, err)
	assert.True(t, check.HasReviewed)

	// Provider aggregates re-derive from the review list: the seeded
	// aggregate (15 reviews) is replaced by the actual count.
	p, err := m.GetProvider(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, p.TotalReviews)
	assert.InDelta(t, (5.0+4.0+5.0)/3.0, p.AverageRating, 0.001)

	summary, err := m.ReviewSummary(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalReviews)
	assert.Equal(t, 2, summary.Distribution[5])
	assert.Equal(t, 1, summary.Distribution[4])
}

func TestMockRejectsBadToken(t *testing.T) {
	m := newTestMock()
	_, err := m.Me(context.Background(), "not-a-token")
	assert.Error(t, err)
	assert.Equal(t, 401, apperror.StatusCode(err))
}
