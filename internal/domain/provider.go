package domain

import (
	"encoding/json"
	"time"
)

// Provider is the canonical provider record. Everything past the gateway
// boundary works with this shape only; incoming field-name variants are
// normalized once, in NormalizeProvider.
type Provider struct {
	ID             int       `json:"id"`
	UserID         int       `json:"userId"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone"`
	Birthdate      string    `json:"birthdate"` // ISO date 'YYYY-MM-DD'
	Province       string    `json:"province"`
	City           string    `json:"city"`
	Address        string    `json:"address"` // never exposed publicly beyond city/province
	NationalID     string    `json:"dniCuit"`
	Categories     []int     `json:"categories"`
	Subcategories  []int     `json:"subcategories"`
	Description    string    `json:"description"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	Certificate    string    `json:"certificate,omitempty"`
	Portfolio      string    `json:"portfolio,omitempty"`
	AverageRating  float64   `json:"averageRating"`
	TotalReviews   int       `json:"totalReviews"`
	CreatedAt      time.Time `json:"createdAt,omitzero"`
	UpdatedAt      time.Time `json:"updatedAt,omitzero"`
}

// PublicView strips fields that must not leave the service for anonymous
// consumers (street address, national id, birthdate).
func (p Provider) PublicView() Provider {
	p.Address = ""
	p.NationalID = ""
	p.Birthdate = ""
	return p
}

// FileAttachment is a file captured by the wizard, held in memory until
// submission ships it in the multipart payload.
type FileAttachment struct {
	Field    string
	Filename string
	Content  []byte
}

// ProviderProfileInput is the full payload for profile creation: all
// personal/location/professional fields plus any attachments.
type ProviderProfileInput struct {
	FirstName     string
	LastName      string
	Phone         string
	Birthdate     string
	Province      string
	City          string
	Address       string
	NationalID    string
	Categories    []int
	Subcategories []int
	Description   string
	Attachments   []FileAttachment
}

// ProviderProfileUpdate is the profile-edit subset. Its validation rules
// are independent from the wizard's (notably the 20-character description
// minimum and the looser phone pattern).
type ProviderProfileUpdate struct {
	FirstName   string `json:"firstName" validate:"required,valid_name,no_emoji"`
	LastName    string `json:"lastName" validate:"required,valid_name,no_emoji"`
	Phone       string `json:"phone" validate:"required,edit_phone"`
	Province    string `json:"province" validate:"required"`
	City        string `json:"city" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Description string `json:"description" validate:"required,min=20"`
}

type ProviderSearchFilters struct {
	Category    int
	Subcategory int
	Province    string
	City        string
	Query       string
	MinRating   float64
	SortBy      string // rating | reviews | newest
	Page        int
	Limit       int
}

// providerWire mirrors every field-name variant the backend has been seen
// emitting (camelCase and snake_case duplicated on the same record, and
// category lists as either bare ids or {id,name} objects).
type providerWire struct {
	ID             int               `json:"id"`
	UserID         *int              `json:"userId"`
	UserIDSnake    *int              `json:"user_id"`
	FirstName      string            `json:"firstName"`
	FirstNameSnake string            `json:"first_name"`
	LastName       string            `json:"lastName"`
	LastNameSnake  string            `json:"last_name"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone"`
	Birthdate      string            `json:"birthdate"`
	BirthDateSnake string            `json:"birth_date"`
	Province       string            `json:"province"`
	City           string            `json:"city"`
	Address        string            `json:"address"`
	NationalID     string            `json:"dniCuit"`
	NationalSnake  string            `json:"dni_cuit"`
	Categories     []json.RawMessage `json:"categories"`
	Subcategories  []json.RawMessage `json:"subcategories"`
	Description    string            `json:"description"`
	Picture        *string           `json:"profilePicture"`
	PictureSnake   *string           `json:"profile_picture"`
	Certificate    *string           `json:"certificate"`
	Portfolio      *string           `json:"portfolio"`
	AvgRating      *float64          `json:"averageRating"`
	AvgRatingSnake *float64          `json:"average_rating"`
	Rating         *float64          `json:"rating"`
	TotalReviews   *int              `json:"totalReviews"`
	TotalSnake     *int              `json:"total_reviews"`
	ReviewCount    *int              `json:"reviewCount"`
	CreatedAt      string            `json:"createdAt"`
	CreatedSnake   string            `json:"created_at"`
	UpdatedAt      string            `json:"updatedAt"`
	UpdatedSnake   string            `json:"updated_at"`
}

// NormalizeProvider adapts a raw backend provider record into the
// canonical Provider. camelCase fields win; snake_case fills the gaps.
// This is the only place in the system that knows about the duplication.
func NormalizeProvider(raw []byte) (*Provider, error) {
	var w providerWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}

	p := &Provider{
		ID:             w.ID,
		UserID:         coalesceInt(w.UserID, w.UserIDSnake),
		FirstName:      coalesceStr(w.FirstName, w.FirstNameSnake),
		LastName:       coalesceStr(w.LastName, w.LastNameSnake),
		Email:          w.Email,
		Phone:          w.Phone,
		Birthdate:      coalesceStr(w.Birthdate, w.BirthDateSnake),
		Province:       w.Province,
		City:           w.City,
		Address:        w.Address,
		NationalID:     coalesceStr(w.NationalID, w.NationalSnake),
		Categories:     idList(w.Categories),
		Subcategories:  idList(w.Subcategories),
		Description:    w.Description,
		ProfilePicture: coalescePtrStr(w.Picture, w.PictureSnake),
		Certificate:    derefStr(w.Certificate),
		Portfolio:      derefStr(w.Portfolio),
		AverageRating:  coalesceFloat(w.AvgRating, w.AvgRatingSnake, w.Rating),
		TotalReviews:   coalesceInt(w.TotalReviews, w.TotalSnake, w.ReviewCount),
		CreatedAt:      parseTime(w.CreatedAt, w.CreatedSnake),
		UpdatedAt:      parseTime(w.UpdatedAt, w.UpdatedSnake),
	}
	return p, nil
}

// idList accepts category/subcategory lists either as bare ids or as
// {id, name} objects.
func idList(items []json.RawMessage) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		var id int
		if err := json.Unmarshal(item, &id); err == nil {
			out = append(out, id)
			continue
		}
		var obj struct {
			ID int `json:"id"`
		}
		if err := json.Unmarshal(item, &obj); err == nil {
			out = append(out, obj.ID)
		}
	}
	return out
}

func coalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func coalescePtrStr(vals ...*string) string {
	for _, v := range vals {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}

func derefStr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func coalesceInt(vals ...*int) int {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

func coalesceFloat(vals ...*float64) float64 {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

func parseTime(vals ...string) time.Time {
	for _, v := range vals {
		if v == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
