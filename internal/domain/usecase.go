package domain

import "context"

type CategoryUsecase interface {
	ListCategories(ctx context.Context) ([]CategoryWithSubcategories, error)
	GetCategory(ctx context.Context, id int) (*CategoryWithSubcategories, error)
	ListSubcategories(ctx context.Context, categoryID int) ([]Subcategory, error)
}

type ProviderUsecase interface {
	Search(ctx context.Context, f ProviderSearchFilters) ([]Provider, error)
	Featured(ctx context.Context) ([]Provider, error)
	GetByID(ctx context.Context, id int) (*Provider, error)
	MyProfile(ctx context.Context, token string) (*Provider, error)
	UpdateProfile(ctx context.Context, token string, upd *ProviderProfileUpdate) (*Provider, error)
}

type ReviewUsecase interface {
	ListByProvider(ctx context.Context, providerID int) ([]Review, error)
	Summary(ctx context.Context, providerID int) (*RatingSummary, error)
	Create(ctx context.Context, token string, in ReviewInput) (*Review, error)
	HasReviewed(ctx context.Context, token string, providerID int) (*ReviewCheck, error)
	MyReviews(ctx context.Context, token string) ([]Review, error)
}
