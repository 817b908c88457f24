package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/JuanVergara-9/miservicio-api/internal/domain"
	"github.com/JuanVergara-9/miservicio-api/internal/gateway"
	"github.com/JuanVergara-9/miservicio-api/pkg/apperror"
)

type providerUsecase struct {
	gateway  gateway.Client
	validate *validator.Validate
}

func NewProviderUsecase(gw gateway.Client, validate *validator.Validate) domain.ProviderUsecase {
	return &providerUsecase{gateway: gw, validate: validate}
}

func (u *providerUsecase) Search(ctx context.Context, f domain.ProviderSearchFilters) ([]domain.Provider, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	providers, err := u.gateway.SearchProviders(ctx, f)
	if err != nil {
		return nil, err
	}
	return publicViews(providers), nil
}

func (u *providerUsecase) Featured(ctx context.Context) ([]domain.Provider, error) {
	providers, err := u.gateway.FeaturedProviders(ctx)
	if err != nil {
		return nil, err
	}
	return publicViews(providers), nil
}

func (u *providerUsecase) GetByID(ctx context.Context, id int) (*domain.Provider, error) {
	p, err := u.gateway.GetProvider(ctx, id)
	if err != nil {
		return nil, err
	}
	public := p.PublicView()
	return &public, nil
}

func (u *providerUsecase) MyProfile(ctx context.Context, token string) (*domain.Provider, error) {
	return u.gateway.MyProviderProfile(ctx, token)
}

// UpdateProfile validates the edit form with its own rules. They are
// independent from the onboarding wizard's: the description minimum here
// is 20 characters and the phone pattern is looser.
func (u *providerUsecase) UpdateProfile(ctx context.Context, token string, upd *domain.ProviderProfileUpdate) (*domain.Provider, error) {
	if err := u.validate.Struct(upd); err != nil {
		return nil, apperror.BadRequest(editErrorMessage(err))
	}
	if !domain.IsProvince(strings.TrimSpace(upd.Province)) {
		return nil, apperror.BadRequest("La provincia no es válida")
	}
	return u.gateway.UpdateProviderProfile(ctx, token, upd)
}

func editErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	ok := false
	if v, isVErrs := err.(validator.ValidationErrors); isVErrs && len(v) > 0 {
		verrs, ok = v, true
	}
	if !ok {
		return "Datos del perfil inválidos"
	}

	fe := verrs[0]
	switch fe.Field() {
	case "FirstName":
		if fe.Tag() != "required" {
			return "El nombre contiene caracteres inválidos"
		}
		return "El nombre es obligatorio"
	case "LastName":
		if fe.Tag() != "required" {
			return "El apellido contiene caracteres inválidos"
		}
		return "El apellido es obligatorio"
	case "Phone":
		if fe.Tag() == "edit_phone" {
			return "Formato de teléfono inválido"
		}
		return "El teléfono es obligatorio"
	case "Province":
		return "La provincia es obligatoria"
	case "City":
		return "La ciudad es obligatoria"
	case "Address":
		return "La dirección es obligatoria"
	case "Description":
		if fe.Tag() == "min" {
			return "La descripción debe tener al menos 20 caracteres"
		}
		return "La descripción es obligatoria"
	}
	return fmt.Sprintf("Campo inválido: %s", fe.Field())
}

func publicViews(providers []domain.Provider) []domain.Provider {
	out := make([]domain.Provider, len(providers))
	for i, p := range providers {
		out[i] = p.PublicView()
	}
	return out
}
