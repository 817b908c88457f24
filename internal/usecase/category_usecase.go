package usecase

import (
	"context"

	"github.com/JuanVergara-9/miservicio-api/internal/domain"
	"github.com/JuanVergara-9/miservicio-api/internal/gateway"
)

type categoryUsecase struct {
	gateway gateway.Client
}

func NewCategoryUsecase(gw gateway.Client) domain.CategoryUsecase {
	return &categoryUsecase{gateway: gw}
}

func (u *categoryUsecase) ListCategories(ctx context.Context) ([]domain.CategoryWithSubcategories, error) {
	return u.gateway.GetCategories(ctx)
}

func (u *categoryUsecase) GetCategory(ctx context.Context, id int) (*domain.CategoryWithSubcategories, error) {
	cat, err := u.gateway.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	subs, err := u.gateway.GetSubcategories(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.CategoryWithSubcategories{Category: *cat, Subcategories: subs}, nil
}

func (u *categoryUsecase) ListSubcategories(ctx context.Context, categoryID int) ([]domain.Subcategory, error) {
	return u.gateway.GetSubcategories(ctx, categoryID)
}
