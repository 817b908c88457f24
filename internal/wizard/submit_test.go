package wizard_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/JuanVergara-9/miservicio-api/internal/domain"
	"github.com/JuanVergara-9/miservicio-api/internal/session"
	"github.com/JuanVergara-9/miservicio-api/internal/wizard"
	"github.com/JuanVergara-9/miservicio-api/pkg/apperror"
)

// MockGateway records the order of backend calls on top of the usual
// testify expectations.
type MockGateway struct {
	mock.Mock
	calls []string
}

func (m *MockGateway) record(name string) {
	m.calls = append(m.calls, name)
}

func (m *MockGateway) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthSession, error) {
	m.record("register")
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthSession), args.Error(1)
}

func (m *MockGateway) Login(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthSession), args.Error(1)
}

func (m *MockGateway) Me(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockGateway) UpgradeRole(ctx context.Context, token, role string) (*domain.AuthSession, error) {
	m.record("upgradeRole")
	args := m.Called(ctx, token, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthSession), args.Error(1)
}

func (m *MockGateway) CreateProviderProfile(ctx context.Context, token string, in *domain.ProviderProfileInput) (*domain.Provider, error) {
	m.record("createProfile")
	args := m.Called(ctx, token, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Provider), args.Error(1)
}

func (m *MockGateway) UpdateProviderProfile(ctx context.Context, token string, upd *domain.ProviderProfileUpdate) (*domain.Provider, error) {
	args := m.Called(ctx, token, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Provider), args.Error(1)
}

func (m *MockGateway) MyProviderProfile(ctx context.Context, token string) (*domain.Provider, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Provider), args.Error(1)
}

func (m *MockGateway) GetProvider(ctx context.Context, id int) (*domain.Provider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Provider), args.Error(1)
}

func (m *MockGateway) SearchProviders(ctx context.Context, f domain.ProviderSearchFilters) ([]domain.Provider, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Provider), args.Error(1)
}

func (m *MockGateway) FeaturedProviders(ctx context.Context) ([]domain.Provider, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Provider), args.Error(1)
}

func (m *MockGateway) GetCategories(ctx context.Context) ([]domain.CategoryWithSubcategories, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.CategoryWithSubcategories), args.Error(1)
}

func (m *MockGateway) GetCategory(ctx context.Context, id int) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockGateway) GetSubcategories(ctx context.Context, categoryID int) ([]domain.Subcategory, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).([]domain.Subcategory), args.Error(1)
}

func (m *MockGateway) ProviderReviews(ctx context.Context, providerID int) ([]domain.Review, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *MockGateway) ReviewSummary(ctx context.Context, providerID int) (*domain.RatingSummary, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingSummary), args.Error(1)
}

func (m *MockGateway) CreateReview(ctx context.Context, token string, in domain.ReviewInput) (*domain.Review, error) {
	args := m.Called(ctx, token, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockGateway) CheckReviewed(ctx context.Context, token string, providerID int) (*domain.ReviewCheck, error) {
	args := m.Called(ctx, token, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewCheck), args.Error(1)
}

func (m *MockGateway) MyReviews(ctx context.Context, token string) ([]domain.Review, error) {
	args := m.Called(ctx, token)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func fullFormWizard(gw *MockGateway, isNewUser bool) (*wizard.Wizard, *session.Manager) {
	sess := session.NewManager(gw, testLogger())
	w := wizard.New("submit-test", isNewUser, sess, gw, 0, testLogger())

	fillStepOne(w)
	w.Form.FirstName = "Carlos"
	w.Form.LastName = "Gómez"
	w.Form.Phone = "2604123456"
	w.Form.Birthdate = "1985-05-15"
	w.Form.NationalID = "20301234567"
	w.Form.Province = "Mendoza"
	w.Form.City = "San Rafael"
	w.Form.Address = "Calle Principal 123"
	w.Form.Categories = []int{2}
	w.Form.Subcategories = []int{201}
	w.Form.Description = strings.Repeat("Electricista con experiencia. ", 3)
	w.GoTo(5)
	return w, sess
}

func demoSession(token string) *domain.AuthSession {
	return &domain.AuthSession{
		Token: token,
		User:  &domain.User{ID: 9, FirstName: "Carlos", LastName: "Gómez", Email: "nuevo@demo.com", Role: domain.RoleClient},
	}
}

func TestSubmitNewUserOrderedFlow(t *testing.T) {
	gw := new(MockGateway)
	w, sess := fullFormWizard(gw, true)

	gw.On("Register", mock.Anything, mock.Anything).Return(demoSession("token-1"), nil)
	elevated := demoSession("token-2")
	elevated.User.Role = domain.RoleProvider
	gw.On("UpgradeRole", mock.Anything, "token-1", domain.RoleProvider).Return(elevated, nil)
	gw.On("CreateProviderProfile", mock.Anything, "token-2", mock.Anything).
		Return(&domain.Provider{ID: 7, UserID: 9}, nil)

	result, err := w.Submit(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"register", "upgradeRole", "createProfile"}, gw.calls)
	assert.Equal(t, "¡Registro exitoso! Tu perfil de proveedor está en revisión.", result.Message)
	assert.Equal(t, 7, result.Provider.ID)

	// The renewed credential from the elevation stuck.
	assert.Equal(t, "token-2", sess.Token())
	assert.False(t, w.Submitting())
}

func TestSubmitExistingUserSkipsElevation(t *testing.T) {
	gw := new(MockGateway)
	w, sess := fullFormWizard(gw, false)

	gw.On("Me", mock.Anything, "existing-token").
		Return(&domain.User{ID: 4, Email: "carlos@demo.com", Role: domain.RoleClient}, nil)
	_, err := sess.Resume(context.Background(), "existing-token")
	assert.NoError(t, err)

	gw.On("CreateProviderProfile", mock.Anything, "existing-token", mock.Anything).
		Return(&domain.Provider{ID: 3, UserID: 4}, nil)

	result, err := w.Submit(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"createProfile"}, gw.calls, "no register, no role elevation")
	assert.Equal(t, "¡Perfil de proveedor creado! Está en revisión.", result.Message)
}

func TestSubmitStopsAtFirstFailure(t *testing.T) {
	gw := new(MockGateway)
	w, _ := fullFormWizard(gw, true)

	gw.On("Register", mock.Anything, mock.Anything).
		Return(nil, apperror.New(http.StatusBadGateway, "boom", nil))

	_, err := w.Submit(context.Background())
	assert.Error(t, err)
	assert.Equal(t, []string{"register"}, gw.calls, "later steps never run")
	assert.False(t, w.Submitting(), "flag cleared after failure")
}

func TestSubmitClassifiesEmailExists(t *testing.T) {
	gw := new(MockGateway)
	w, _ := fullFormWizard(gw, true)

	gw.On("Register", mock.Anything, mock.Anything).
		Return(nil, apperror.EmailExists("Este email ya está registrado"))

	_, err := w.Submit(context.Background())
	assert.Error(t, err)
	assert.True(t, apperror.IsEmailExists(err))
	assert.Equal(t, "Este email ya está registrado", w.Errors()["email"],
		"duplicate email lands on the email field")
}

func TestSubmitClassifiesSessionExpiry(t *testing.T) {
	gw := new(MockGateway)
	w, sess := fullFormWizard(gw, false)

	gw.On("Me", mock.Anything, "stale-token").
		Return(&domain.User{ID: 4, Role: domain.RoleClient}, nil)
	_, err := sess.Resume(context.Background(), "stale-token")
	assert.NoError(t, err)

	gw.On("CreateProviderProfile", mock.Anything, "stale-token", mock.Anything).
		Return(nil, apperror.Unauthorized("No autorizado. Es posible que necesites iniciar sesión nuevamente."))

	_, err = w.Submit(context.Background())
	assert.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperror.StatusCode(err))
	assert.Contains(t, err.Error(), "No autorizado")

	// The rejected credential does not survive the attempt.
	assert.False(t, sess.IsAuthenticated())
	assert.Empty(t, sess.Token())
	assert.Nil(t, sess.Current())
}

func TestSubmitClassifiesServiceUnavailable(t *testing.T) {
	gw := new(MockGateway)
	w, _ := fullFormWizard(gw, true)

	gw.On("Register", mock.Anything, mock.Anything).
		Return(nil, apperror.NotFound("Servicio no disponible en este momento."))

	_, err := w.Submit(context.Background())
	assert.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.StatusCode(err))
	assert.Contains(t, err.Error(), "Servicio no disponible")
}

func TestSubmitOnlyAtLastStep(t *testing.T) {
	gw := new(MockGateway)
	sess := session.NewManager(gw, testLogger())
	w := wizard.New("early", true, sess, gw, 0, testLogger())

	_, err := w.Submit(context.Background())
	assert.Error(t, err)
	assert.Empty(t, gw.calls)
}
