// Package wizard implements the multi-step become-a-provider flow: the
// form data store, the per-step validation rules, step navigation, file
// attachments and the submission orchestration against the gateway.
package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JuanVergara-9/miservicio-api/internal/domain"
	"github.com/JuanVergara-9/miservicio-api/pkg/apperror"
)

// FormData holds every field the five steps collect. It lives in memory
// for the duration of one wizard session and is discarded after a
// successful submission; nothing here is ever persisted durably.
type FormData struct {
	// Step 1, credentials (new users only)
	Email           string
	Password        string
	ConfirmPassword string
	Terms           bool

	// Step 2, personal
	FirstName  string
	LastName   string
	Phone      string
	Birthdate  string // ISO date 'YYYY-MM-DD'
	NationalID string

	// Step 3, location
	Province string
	City     string
	Address  string

	// Step 4, professional
	Categories    []int
	Subcategories []int
	Description   string

	// Step 5, attachments
	ProfilePicture *domain.FileAttachment
	Certificate    *domain.FileAttachment
	Portfolio      *domain.FileAttachment

	// Derived attachment state
	ProfilePreview      string // base64 data URL, set asynchronously
	CertificateFileName string
	PortfolioFileName   string
}

func NewFormData() *FormData {
	return &FormData{
		Categories:    []int{},
		Subcategories: []int{},
	}
}

// Prefill seeds name and email from an already-authenticated account, the
// way the form opens for an existing user.
func (f *FormData) Prefill(u *domain.User) {
	if u == nil {
		return
	}
	f.FirstName = u.FirstName
	f.LastName = u.LastName
	f.Email = u.Email
}

// Set applies a single field-change event. Unknown fields are rejected so
// a typo in a caller surfaces instead of silently dropping input.
func (f *FormData) Set(field, value string) error {
	switch field {
	case "email":
		f.Email = value
	case "password":
		f.Password = value
	case "confirmPassword":
		f.ConfirmPassword = value
	case "terms":
		accepted, err := strconv.ParseBool(value)
		if err != nil {
			return apperror.BadRequest("terms must be a boolean")
		}
		f.Terms = accepted
	case "firstName":
		f.FirstName = value
	case "lastName":
		f.LastName = value
	case "phone":
		f.Phone = value
	case "birthdate":
		f.Birthdate = value
	case "dniCuit":
		f.NationalID = value
	case "province":
		f.Province = value
	case "city":
		f.City = value
	case "address":
		f.Address = value
	case "description":
		f.Description = value
	default:
		return apperror.BadRequest(fmt.Sprintf("unknown form field: %s", field))
	}
	return nil
}

// SelectCategory adds a category directly (without any subcategory).
func (f *FormData) SelectCategory(categoryID int) {
	if !containsInt(f.Categories, categoryID) {
		f.Categories = append(f.Categories, categoryID)
	}
}

// DeselectCategory removes a category and every selected subcategory
// under it.
func (f *FormData) DeselectCategory(categoryID int, catalog []domain.Subcategory) {
	f.Categories = removeInt(f.Categories, categoryID)
	for _, sub := range catalog {
		if sub.CategoryID == categoryID {
			f.Subcategories = removeInt(f.Subcategories, sub.ID)
		}
	}
}

// SelectSubcategory adds a subcategory and guarantees its parent category
// is selected too.
func (f *FormData) SelectSubcategory(sub domain.Subcategory) {
	if !containsInt(f.Subcategories, sub.ID) {
		f.Subcategories = append(f.Subcategories, sub.ID)
	}
	f.SelectCategory(sub.CategoryID)
}

// DeselectSubcategory removes a subcategory. When it was the last selected
// one under its parent category, the category goes too.
func (f *FormData) DeselectSubcategory(sub domain.Subcategory, catalog []domain.Subcategory) {
	f.Subcategories = removeInt(f.Subcategories, sub.ID)
	for _, other := range catalog {
		if other.CategoryID == sub.CategoryID && containsInt(f.Subcategories, other.ID) {
			return
		}
	}
	f.Categories = removeInt(f.Categories, sub.CategoryID)
}

// ProfileInput assembles the profile-creation payload, attachments
// included, in the shape the gateway ships as multipart.
func (f *FormData) ProfileInput() *domain.ProviderProfileInput {
	in := &domain.ProviderProfileInput{
		FirstName:     strings.TrimSpace(f.FirstName),
		LastName:      strings.TrimSpace(f.LastName),
		Phone:         f.Phone,
		Birthdate:     f.Birthdate,
		Province:      strings.TrimSpace(f.Province),
		City:          strings.TrimSpace(f.City),
		Address:       strings.TrimSpace(f.Address),
		NationalID:    f.NationalID,
		Categories:    append([]int(nil), f.Categories...),
		Subcategories: append([]int(nil), f.Subcategories...),
		Description:   f.Description,
	}
	for _, att := range []*domain.FileAttachment{f.ProfilePicture, f.Certificate, f.Portfolio} {
		if att != nil {
			in.Attachments = append(in.Attachments, *att)
		}
	}
	return in
}

// RegisterInput extracts the account-creation subset of the form. Only
// credentials and name travel here; everything else waits for the profile
// payload.
func (f *FormData) RegisterInput() domain.RegisterInput {
	return domain.RegisterInput{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Email:     strings.TrimSpace(f.Email),
		Password:  f.Password,
	}
}

func containsInt(list []int, v int) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func removeInt(list []int, v int) []int {
	out := list[:0]
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}
