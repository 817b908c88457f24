package usecase

import (
	"context"
	"net/http"
	"strings"

	"github.com/JuanVergara-9/miservicio-api/internal/domain"
	"github.com/JuanVergara-9/miservicio-api/internal/gateway"
	"github.com/JuanVergara-9/miservicio-api/pkg/apperror"
)

type reviewUsecase struct {
	gateway gateway.Client
}

func NewReviewUsecase(gw gateway.Client) domain.ReviewUsecase {
	return &reviewUsecase{gateway: gw}
}

func (u *reviewUsecase) ListByProvider(ctx context.Context, providerID int) ([]domain.Review, error) {
	return u.gateway.ProviderReviews(ctx, providerID)
}

func (u *reviewUsecase) Summary(ctx context.Context, providerID int) (*domain.RatingSummary, error) {
	return u.gateway.ReviewSummary(ctx, providerID)
}

func (u *reviewUsecase) Create(ctx context.Context, token string, in domain.ReviewInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperror.BadRequest("La calificación debe estar entre 1 y 5")
	}
	in.Comment = strings.TrimSpace(in.Comment)

	check, err := u.gateway.CheckReviewed(ctx, token, in.ProviderID)
	if err != nil {
		return nil, err
	}
	if check.HasReviewed {
		return nil, apperror.New(http.StatusConflict, "Ya has dejado una reseña para este proveedor", nil)
	}

	return u.gateway.CreateReview(ctx, token, in)
}

func (u *reviewUsecase) HasReviewed(ctx context.Context, token string, providerID int) (*domain.ReviewCheck, error) {
	return u.gateway.CheckReviewed(ctx, token, providerID)
}

func (u *reviewUsecase) MyReviews(ctx context.Context, token string) ([]domain.Review, error) {
	return u.gateway.MyReviews(ctx, token)
}
