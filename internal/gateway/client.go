// Package gateway is the boundary to the marketplace REST backend. The
// rest of the application talks to the Client interface only; whether the
// calls hit the live API or the in-memory mock responder is decided once,
// at startup, by configuration.
package gateway

import (
	"context"

	"github.com/JuanVergara-9/miservicio-api/internal/domain"
)

type Client interface {
	// Auth
	Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthSession, error)
	Login(ctx context.Context, email, password string) (*domain.AuthSession, error)
	Me(ctx context.Context, token string) (*domain.User, error)
	// UpgradeRole elevates the account behind token to the given role.
	// Credential renewal is optional per call: the returned session carries
	// a fresh token when the backend reissued one, or an empty Token when
	// the old credential stays valid.
	UpgradeRole(ctx context.Context, token, role string) (*domain.AuthSession, error)

	// Providers
	CreateProviderProfile(ctx context.Context, token string, in *domain.ProviderProfileInput) (*domain.Provider, error)
	UpdateProviderProfile(ctx context.Context, token string, upd *domain.ProviderProfileUpdate) (*domain.Provider, error)
	MyProviderProfile(ctx context.Context, token string) (*domain.Provider, error)
	GetProvider(ctx context.Context, id int) (*domain.Provider, error)
	SearchProviders(ctx context.Context, f domain.ProviderSearchFilters) ([]domain.Provider, error)
	FeaturedProviders(ctx context.Context) ([]domain.Provider, error)

	// Categories
	GetCategories(ctx context.Context) ([]domain.CategoryWithSubcategories, error)
	GetCategory(ctx context.Context, id int) (*domain.Category, error)
	GetSubcategories(ctx context.Context, categoryID int) ([]domain.Subcategory, error)

	// Reviews
	ProviderReviews(ctx context.Context, providerID int) ([]domain.Review, error)
	ReviewSummary(ctx context.Context, providerID int) (*domain.RatingSummary, error)
	CreateReview(ctx context.Context, token string, in domain.ReviewInput) (*domain.Review, error)
	CheckReviewed(ctx context.Context, token string, providerID int) (*domain.ReviewCheck, error)
	MyReviews(ctx context.Context, token string) ([]domain.Review, error)
}
