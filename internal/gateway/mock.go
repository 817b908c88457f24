package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/JuanVergara-9/miservicio-api/internal/domain"
	"github.com/JuanVergara-9/miservicio-api/pkg/apperror"
)

// Mock is the in-memory backend responder selected by USE_MOCK_BACKEND.
// It keeps the whole demo dataset in memory, hashes passwords with bcrypt
// and issues real HS256 tokens, so the rest of the system cannot tell it
// apart from the live API.
type Mock struct {
	mu             sync.Mutex
	secret         []byte
	tokenTTL       time.Duration
	log            *slog.Logger
	users          []*mockUser
	providers      []*domain.Provider
	categories     []domain.CategoryWithSubcategories
	reviews        []*domain.Review
	nextUserID     int
	nextProviderID int
	nextReviewID   int
}

type mockUser struct {
	domain.User
	passwordHash []byte
}

func NewMock(secret string, tokenTTL time.Duration, log *slog.Logger) *Mock {
	m := &Mock{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		log:      log,
	}
	m.seed()
	return m
}

// ---- credentials ----

func (m *Mock) issueToken(u *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   strconv.Itoa(u.ID),
		"email": u.Email,
		"role":  u.Role,
		"exp":   jwt.NewNumericDate(time.Now().Add(m.tokenTTL)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.secret)
}

// authenticate resolves the user behind a bearer token. Must be called
// with m.mu held.
func (m *Mock) authenticate(token string) (*mockUser, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apperror.Unauthorized("No autorizado. Es posible que necesites iniciar sesión nuevamente.")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.Unauthorized("No autorizado. Es posible que necesites iniciar sesión nuevamente.")
	}
	sub, _ := claims["sub"].(string)
	id, _ := strconv.Atoi(sub)
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperror.Unauthorized("No autorizado. Es posible que necesites iniciar sesión nuevamente.")
}

func (m *Mock) session(u *domain.User) (*domain.AuthSession, error) {
	token, err := m.issueToken(u)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	copied := *u
	return &domain.AuthSession{Token: token, User: &copied}, nil
}

// ---- Auth ----

func (m *Mock) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(in.Email))
	for _, u := range m.users {
		if u.Email == email {
			return nil, apperror.EmailExists("Este email ya está registrado")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	m.nextUserID++
	u := &mockUser{
		User: domain.User{
			ID:        m.nextUserID,
			FirstName: strings.TrimSpace(in.FirstName),
			LastName:  strings.TrimSpace(in.LastName),
			Email:     email,
			Role:      domain.RoleClient,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		passwordHash: hash,
	}
	m.users = append(m.users, u)
	m.log.Info("mock backend: account created", "userId", u.ID, "email", u.Email)
	return m.session(&u.User)
}

func (m *Mock) Login(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)) != nil {
			break
		}
		return m.session(&u.User)
	}
	return nil, apperror.Unauthorized("Credenciales inválidas")
}

func (m *Mock) Me(ctx context.Context, token string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.authenticate(token)
	if err != nil {
		return nil, err
	}
	out := u.User
	out.IsProvider = m.providerByUser(u.ID) != nil
	return &out, nil
}

func (m *Mock) UpgradeRole(ctx context.Context, token, role string) (*domain.AuthSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.authenticate(token)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleProvider && role != domain.RoleClient {
		return nil, apperror.BadRequest("rol desconocido: " + role)
	}

	u.Role = role
	u.UpdatedAt = time.Now()
	// Role changes invalidate the old credential's role claim, so a renewed
	// token is always returned.
	return m.session(&u.User)
}

// ---- Providers ----

func (m *Mock) providerByUser(userID int) *domain.Provider {
	for _, p := range m.providers {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

func (m *Mock) storeAttachment(userID int, att domain.FileAttachment) string {
	ext := filepath.Ext(att.Filename)
	return fmt.Sprintf("/uploads/providers/%d/%s%s", userID, uuid.New().String(), ext)
}

func (m *Mock) CreateProviderProfile(ctx context.Context, token string, in *domain.ProviderProfileInput) (*domain.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.authenticate(token)
	if err != nil {
		return nil, err
	}

	m.nextProviderID++
	p := &domain.Provider{
		ID:            m.nextProviderID,
		UserID:        u.ID,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         u.Email,
		Phone:         in.Phone,
		Birthdate:     in.Birthdate,
		Province:      in.Province,
		City:          in.City,
		Address:       in.Address,
		NationalID:    in.NationalID,
		Categories:    append([]int(nil), in.Categories...),
		Subcategories: append([]int(nil), in.Subcategories...),
		Description:   in.Description,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	for _, att := range in.Attachments {
		stored := m.storeAttachment(u.ID, att)
		switch att.Field {
		case "profilePicture":
			p.ProfilePicture = stored
		case "certificate":
			p.Certificate = stored
		case "portfolio":
			p.Portfolio = stored
		}
	}

	m.providers = append(m.providers, p)
	m.log.Info("mock backend: provider profile created", "providerId", p.ID, "userId", u.ID)

	out := *p
	return &out, nil
}

func (m *Mock) UpdateProviderProfile(ctx context.Context, token string, upd *domain.ProviderProfileUpdate) (*domain.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.authenticate(token)
	if err != nil {
		return nil, err
	}
	p := m.providerByUser(u.ID)
	if p == nil {
		return nil, apperror.NotFound("Provider not found")
	}

	p.FirstName = upd.FirstName
	p.LastName = upd.LastName
	p.Phone = upd.Phone
	p.Province = upd.Province
	p.City = upd.City
	p.Address = upd.Address
	p.Description = upd.Description
	p.UpdatedAt = time.Now()

	out := *p
	return &out, nil
}

func (m *Mock) MyProviderProfile(ctx context.Context, token string) (*domain.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.authenticate(token)
	if err != nil {
		return nil, err
	}
	p := m.providerByUser(u.ID)
	if p == nil {
		return nil, apperror.NotFound("Provider not found")
	}
	out := *p
	return &out, nil
}

func (m *Mock) GetProvider(ctx context.Context, id int) (*domain.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.providers {
		if p.ID == id {
			out := *p
			return &out, nil
		}
	}
	return nil, apperror.NotFound("Provider not found")
}

func (m *Mock) SearchProviders(ctx context.Context, f domain.ProviderSearchFilters) ([]domain.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]domain.Provider, 0, len(m.providers))
	for _, p := range m.providers {
		if f.Category > 0 && !containsInt(p.Categories, f.Category) {
			continue
		}
		if f.Subcategory > 0 && !containsInt(p.Subcategories, f.Subcategory) {
			continue
		}
		if f.Province != "" && !strings.EqualFold(p.Province, f.Province) {
			continue
		}
		if f.City != "" && !strings.Contains(strings.ToLower(p.City), strings.ToLower(f.City)) {
			continue
		}
		if f.Query != "" {
			q := strings.ToLower(f.Query)
			if !strings.Contains(strings.ToLower(p.FirstName), q) &&
				!strings.Contains(strings.ToLower(p.LastName), q) &&
				!strings.Contains(strings.ToLower(p.Description), q) {
				continue
			}
		}
		if f.MinRating > 0 && p.AverageRating < f.MinRating {
			continue
		}
		result = append(result, *p)
	}

	switch f.SortBy {
	case "rating":
		sort.SliceStable(result, func(i, j int) bool { return result[i].AverageRating > result[j].AverageRating })
	case "reviews":
		sort.SliceStable(result, func(i, j int) bool { return result[i].TotalReviews > result[j].TotalReviews })
	case "newest":
		sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	}

	if f.Limit > 0 {
		start := 0
		if f.Page > 1 {
			start = (f.Page - 1) * f.Limit
		}
		if start >= len(result) {
			return []domain.Provider{}, nil
		}
		end := start + f.Limit
		if end > len(result) {
			end = len(result)
		}
		result = result[start:end]
	}
	return result, nil
}

func (m *Mock) FeaturedProviders(ctx context.Context) ([]domain.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	featured := make([]domain.Provider, 0, len(m.providers))
	for _, p := range m.providers {
		if p.TotalReviews > 0 {
			featured = append(featured, *p)
		}
	}
	sort.SliceStable(featured, func(i, j int) bool { return featured[i].AverageRating > featured[j].AverageRating })
	if len(featured) > 6 {
		featured = featured[:6]
	}
	return featured, nil
}

// ---- Categories ----

func (m *Mock) GetCategories(ctx context.Context) ([]domain.CategoryWithSubcategories, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CategoryWithSubcategories(nil), m.categories...), nil
}

func (m *Mock) GetCategory(ctx context.Context, id int) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.categories {
		if c.ID == id {
			cat := c.Category
			return &cat, nil
		}
	}
	return nil, apperror.NotFound("Category not found")
}

func (m *Mock) GetSubcategories(ctx context.Context, categoryID int) ([]domain.Subcategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.categories {
		if c.ID == categoryID {
			return append([]domain.Subcategory(nil), c.Subcategories...), nil
		}
	}
	return []domain.Subcategory{}, nil
}

// ---- Reviews ----

func (m *Mock) ProviderReviews(ctx context.Context, providerID int) ([]domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Review, 0)
	for _, r := range m.reviews {
		if r.ProviderID == providerID {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Mock) ReviewSummary(ctx context.Context, providerID int) (*domain.RatingSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summaryLocked(providerID), nil
}

func (m *Mock) summaryLocked(providerID int) *domain.RatingSummary {
	summary := &domain.RatingSummary{
		ProviderID:   providerID,
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	total := 0
	for _, r := range m.reviews {
		if r.ProviderID != providerID {
			continue
		}
		summary.TotalReviews++
		total += r.Rating
		if r.Rating >= 1 && r.Rating <= 5 {
			summary.Distribution[r.Rating]++
		}
	}
	if summary.TotalReviews > 0 {
		summary.AverageRating = float64(total) / float64(summary.TotalReviews)
	}
	return summary
}

func (m *Mock) CreateReview(ctx context.Context, token string, in domain.ReviewInput) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.authenticate(token)
	if err != nil {
		return nil, err
	}

	var provider *domain.Provider
	for _, p := range m.providers {
		if p.ID == in.ProviderID {
			provider = p
			break
		}
	}
	if provider == nil {
		return nil, apperror.NotFound("Provider not found")
	}

	m.nextReviewID++
	r := &domain.Review{
		ID:         m.nextReviewID,
		ProviderID: in.ProviderID,
		UserID:     u.ID,
		UserName:   strings.TrimSpace(u.FirstName + " " + u.LastName),
		Rating:     in.Rating,
		Comment:    in.Comment,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	m.reviews = append(m.reviews, r)

	// Keep the provider aggregates in sync with the review list.
	s := m.summaryLocked(in.ProviderID)
	provider.AverageRating = s.AverageRating
	provider.TotalReviews = s.TotalReviews

	out := *r
	return &out, nil
}

func (m *Mock) CheckReviewed(ctx context.Context, token string, providerID int) (*domain.ReviewCheck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.authenticate(token)
	if err != nil {
		return nil, err
	}
	for _, r := range m.reviews {
		if r.ProviderID == providerID && r.UserID == u.ID {
			copied := *r
			return &domain.ReviewCheck{HasReviewed: true, Review: &copied}, nil
		}
	}
	return &domain.ReviewCheck{HasReviewed: false}, nil
}

func (m *Mock) MyReviews(ctx context.Context, token string) ([]domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.authenticate(token)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0)
	for _, r := range m.reviews {
		if r.UserID == u.ID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func containsInt(list []int, v int) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

var _ Client = (*Mock)(nil)
