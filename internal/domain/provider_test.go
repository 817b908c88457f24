package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanVergara-9/miservicio-api/internal/domain"
)

func TestNormalizeProviderPrefersCamelCase(t *testing.T) {
	raw := []byte(`{
		"id": 1,
		"firstName": "Carlos",
		"first_name": "ignored",
		"last_name": "Gómez",
		"birth_date": "1985-05-15",
		"dniCuit": "20301234567",
		"averageRating": 4.8,
		"average_rating": 1.0,
		"total_reviews": 15,
		"categories": [2],
		"subcategories": [201, 202]
	}`)

	p, err := domain.NormalizeProvider(raw)
	require.NoError(t, err)
	assert.Equal(t, "Carlos", p.FirstName, "camelCase wins when both are present")
	assert.Equal(t, "Gómez", p.LastName, "snake_case fills the gap")
	assert.Equal(t, "1985-05-15", p.Birthdate)
	assert.Equal(t, 4.8, p.AverageRating)
	assert.Equal(t, 15, p.TotalReviews)
	assert.Equal(t, []int{2}, p.Categories)
	assert.Equal(t, []int{201, 202}, p.Subcategories)
}

func TestNormalizeProviderCategoryShapes(t *testing.T) {
	raw := []byte(`{
		"id": 2,
		"categories": [{"id": 3, "name": "Plomería"}],
		"subcategories": [301, {"id": 302, "name": "Reparaciones de cañerías"}]
	}`)

	p, err := domain.NormalizeProvider(raw)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, p.Categories, "object entries collapse to their id")
	assert.Equal(t, []int{301, 302}, p.Subcategories, "bare ids and objects mix")
}

func TestNormalizeProviderRatingFallbackChain(t *testing.T) {
	p, err := domain.NormalizeProvider([]byte(`{"id": 3, "rating": 4.5, "reviewCount": 7}`))
	require.NoError(t, err)
	assert.Equal(t, 4.5, p.AverageRating)
	assert.Equal(t, 7, p.TotalReviews)
}

func TestPublicViewStripsPrivateFields(t *testing.T) {
	p := domain.Provider{
		ID:         1,
		FirstName:  "Carlos",
		Address:    "Calle Principal 123",
		NationalID: "20301234567",
		Birthdate:  "1985-05-15",
		City:       "San Rafael",
		Province:   "Mendoza",
	}

	public := p.PublicView()
	assert.Empty(t, public.Address)
	assert.Empty(t, public.NationalID)
	assert.Empty(t, public.Birthdate)
	assert.Equal(t, "San Rafael", public.City, "city and province stay public")
	assert.Equal(t, "Mendoza", public.Province)
}
