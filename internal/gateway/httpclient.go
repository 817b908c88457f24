package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JuanVergara-9/miservicio-api/internal/domain"
	"github.com/JuanVergara-9/miservicio-api/pkg/apperror"
)

// HTTPClient talks to the live marketplace backend. Responses are
// normalized into canonical records at this boundary; nothing above it
// sees the backend's field-name variants.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

func NewHTTPClient(baseURL string, log *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("backend request failed", "method", method, "path", path, "error", err)
		return nil, apperror.New(http.StatusServiceUnavailable, "Servicio no disponible en este momento.", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if resp.StatusCode >= 400 {
		return nil, c.mapError(method, path, resp.StatusCode, data)
	}
	return data, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path, token string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		body = bytes.NewReader(raw)
	}
	return c.do(ctx, method, path, token, body, "application/json")
}

func (c *HTTPClient) mapError(method, path string, status int, data []byte) error {
	var eb errorBody
	_ = json.Unmarshal(data, &eb)
	msg := eb.Message
	if msg == "" {
		msg = eb.Error
	}

	c.log.Error("backend error response", "method", method, "path", path, "status", status, "message", msg)

	switch {
	case status == http.StatusConflict,
		eb.Code == "EMAIL_EXISTS",
		strings.Contains(msg, "EMAIL_EXISTS"):
		return apperror.EmailExists("Este email ya está registrado")
	case status == http.StatusUnauthorized:
		return apperror.Unauthorized("No autorizado. Es posible que necesites iniciar sesión nuevamente.")
	case status == http.StatusNotFound:
		return apperror.NotFound("Servicio no disponible en este momento.")
	case status >= 500:
		return apperror.New(status, "Error interno del servidor. Contacte al administrador.", nil)
	default:
		if msg == "" {
			msg = "Error en el proceso. Por favor, inténtalo de nuevo."
		}
		return apperror.New(status, msg, nil)
	}
}

// ---- Auth ----

func (c *HTTPClient) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthSession, error) {
	// Account creation uses credentials and name fields only; provider data
	// travels later, in profile creation.
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	data, err := c.doJSON(ctx, http.MethodPost, "/auth/register", "", in)
	if err != nil {
		return nil, err
	}
	return decodeSession(data)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	payload := map[string]string{"email": email, "password": password}
	data, err := c.doJSON(ctx, http.MethodPost, "/auth/login", "", payload)
	if err != nil {
		return nil, err
	}
	return decodeSession(data)
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*domain.User, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/auth/me", token, nil)
	if err != nil {
		return nil, err
	}
	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, apperror.Internal(err)
	}
	return &u, nil
}

func (c *HTTPClient) UpgradeRole(ctx context.Context, token, role string) (*domain.AuthSession, error) {
	payload := map[string]string{"role": role}
	data, err := c.doJSON(ctx, http.MethodPut, "/auth/role", token, payload)
	if err != nil {
		return nil, err
	}
	// Token renewal is optional here; an absent token means the previous
	// credential remains valid.
	var sess domain.AuthSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, apperror.Internal(err)
	}
	return &sess, nil
}

func decodeSession(data []byte) (*domain.AuthSession, error) {
	var sess domain.AuthSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, apperror.Internal(err)
	}
	if sess.Token == "" {
		return nil, apperror.New(http.StatusBadGateway, "Error en el proceso de registro.", fmt.Errorf("auth response missing token"))
	}
	return &sess, nil
}

// ---- Providers ----

func (c *HTTPClient) CreateProviderProfile(ctx context.Context, token string, in *domain.ProviderProfileInput) (*domain.Provider, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"firstName":   in.FirstName,
		"lastName":    in.LastName,
		"phone":       in.Phone,
		"birthdate":   in.Birthdate,
		"province":    in.Province,
		"city":        in.City,
		"address":     in.Address,
		"description": in.Description,
		"dniCuit":     in.NationalID,
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, apperror.Internal(err)
		}
	}
	for _, id := range in.Categories {
		if err := mw.WriteField("categories[]", strconv.Itoa(id)); err != nil {
			return nil, apperror.Internal(err)
		}
	}
	for _, id := range in.Subcategories {
		if err := mw.WriteField("subcategories[]", strconv.Itoa(id)); err != nil {
			return nil, apperror.Internal(err)
		}
	}
	for _, att := range in.Attachments {
		fw, err := mw.CreateFormFile(att.Field, att.Filename)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if _, err := fw.Write(att.Content); err != nil {
			return nil, apperror.Internal(err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, apperror.Internal(err)
	}

	data, err := c.do(ctx, http.MethodPost, "/providers", token, &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	return domain.NormalizeProvider(data)
}

func (c *HTTPClient) UpdateProviderProfile(ctx context.Context, token string, upd *domain.ProviderProfileUpdate) (*domain.Provider, error) {
	data, err := c.doJSON(ctx, http.MethodPut, "/providers/me", token, upd)
	if err != nil {
		return nil, err
	}
	return domain.NormalizeProvider(data)
}

func (c *HTTPClient) MyProviderProfile(ctx context.Context, token string) (*domain.Provider, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/providers/me", token, nil)
	if err != nil {
		return nil, err
	}
	return domain.NormalizeProvider(data)
}

func (c *HTTPClient) GetProvider(ctx context.Context, id int) (*domain.Provider, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/providers/"+strconv.Itoa(id), "", nil)
	if err != nil {
		return nil, err
	}
	return domain.NormalizeProvider(data)
}

func (c *HTTPClient) SearchProviders(ctx context.Context, f domain.ProviderSearchFilters) ([]domain.Provider, error) {
	q := url.Values{}
	if f.Category > 0 {
		q.Set("category", strconv.Itoa(f.Category))
	}
	if f.Subcategory > 0 {
		q.Set("subcategory", strconv.Itoa(f.Subcategory))
	}
	if f.Province != "" {
		q.Set("province", f.Province)
	}
	if f.City != "" {
		q.Set("city", f.City)
	}
	if f.Query != "" {
		q.Set("search", f.Query)
	}
	if f.MinRating > 0 {
		q.Set("minRating", strconv.FormatFloat(f.MinRating, 'f', -1, 64))
	}
	if f.SortBy != "" {
		q.Set("sortBy", f.SortBy)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}

	path := "/providers"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	data, err := c.doJSON(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		// An empty result set is not a failure for search.
		if apperror.StatusCode(err) == http.StatusNotFound {
			return []domain.Provider{}, nil
		}
		return nil, err
	}
	return decodeProviderList(data)
}

func (c *HTTPClient) FeaturedProviders(ctx context.Context) ([]domain.Provider, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/providers/featured", "", nil)
	if err != nil {
		if apperror.StatusCode(err) == http.StatusNotFound {
			return []domain.Provider{}, nil
		}
		return nil, err
	}
	return decodeProviderList(data)
}

// decodeProviderList accepts both list shapes the backend emits: a bare
// array, or an envelope {providers: [...], total: n}.
func decodeProviderList(data []byte) ([]domain.Provider, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		var envelope struct {
			Providers []json.RawMessage `json:"providers"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, apperror.Internal(err)
		}
		items = envelope.Providers
	}

	out := make([]domain.Provider, 0, len(items))
	for _, item := range items {
		p, err := domain.NormalizeProvider(item)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		out = append(out, *p)
	}
	return out, nil
}

// ---- Categories ----

func (c *HTTPClient) GetCategories(ctx context.Context) ([]domain.CategoryWithSubcategories, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/categories?includeSubcategories=true", "", nil)
	if err != nil {
		return nil, err
	}
	var cats []domain.CategoryWithSubcategories
	if err := json.Unmarshal(data, &cats); err != nil {
		return nil, apperror.Internal(err)
	}
	return cats, nil
}

func (c *HTTPClient) GetCategory(ctx context.Context, id int) (*domain.Category, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/categories/"+strconv.Itoa(id), "", nil)
	if err != nil {
		return nil, err
	}
	var cat domain.Category
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, apperror.Internal(err)
	}
	return &cat, nil
}

func (c *HTTPClient) GetSubcategories(ctx context.Context, categoryID int) ([]domain.Subcategory, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/categories/"+strconv.Itoa(categoryID)+"/subcategories", "", nil)
	if err != nil {
		return nil, err
	}
	var subs []domain.Subcategory
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, apperror.Internal(err)
	}
	return subs, nil
}

// ---- Reviews ----

func (c *HTTPClient) ProviderReviews(ctx context.Context, providerID int) ([]domain.Review, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/reviews/provider/"+strconv.Itoa(providerID), "", nil)
	if err != nil {
		return nil, err
	}
	var reviews []domain.Review
	if err := json.Unmarshal(data, &reviews); err != nil {
		return nil, apperror.Internal(err)
	}
	return reviews, nil
}

func (c *HTTPClient) ReviewSummary(ctx context.Context, providerID int) (*domain.RatingSummary, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/reviews/summary/"+strconv.Itoa(providerID), "", nil)
	if err != nil {
		return nil, err
	}
	var summary domain.RatingSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, apperror.Internal(err)
	}
	return &summary, nil
}

func (c *HTTPClient) CreateReview(ctx context.Context, token string, in domain.ReviewInput) (*domain.Review, error) {
	data, err := c.doJSON(ctx, http.MethodPost, "/reviews", token, in)
	if err != nil {
		return nil, err
	}
	var review domain.Review
	if err := json.Unmarshal(data, &review); err != nil {
		return nil, apperror.Internal(err)
	}
	return &review, nil
}

func (c *HTTPClient) CheckReviewed(ctx context.Context, token string, providerID int) (*domain.ReviewCheck, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/reviews/check/"+strconv.Itoa(providerID), token, nil)
	if err != nil {
		return nil, err
	}
	var check domain.ReviewCheck
	if err := json.Unmarshal(data, &check); err != nil {
		return nil, apperror.Internal(err)
	}
	return &check, nil
}

func (c *HTTPClient) MyReviews(ctx context.Context, token string) ([]domain.Review, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/reviews/my-reviews", token, nil)
	if err != nil {
		return nil, err
	}
	var reviews []domain.Review
	if err := json.Unmarshal(data, &reviews); err != nil {
		return nil, apperror.Internal(err)
	}
	return reviews, nil
}

var _ Client = (*HTTPClient)(nil)
