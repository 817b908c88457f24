package wizard

import (
	"context"
	"net/http"
	"time"

	"github.com/JuanVergara-9/miservicio-api/internal/domain"
	"github.com/JuanVergara-9/miservicio-api/pkg/apperror"
)

// SubmitResult is what a successful submission hands back to the caller.
type SubmitResult struct {
	Provider *domain.Provider `json:"provider"`
	Message  string           `json:"message"`
}

// Submit runs the full submission flow. Only valid at the final step.
//
// New users go through the ordered sequence: create the account, wait for
// the backend to settle, elevate the role (persisting the renewed
// credential), wait again, then create the provider profile. Existing
// users jump straight to profile creation without explicit role
// elevation; the two paths are deliberately not unified, the backend
// elevates implicitly on that route and the divergence is known.
func (w *Wizard) Submit(ctx context.Context) (*SubmitResult, error) {
	w.mu.Lock()
	if w.step != LastStep {
		w.mu.Unlock()
		return nil, apperror.BadRequest("El formulario aún no está en el último paso")
	}
	if w.submitting {
		w.mu.Unlock()
		return nil, apperror.New(http.StatusConflict, "Ya hay un envío en curso", nil)
	}
	if !w.validateCurrentLocked() {
		w.mu.Unlock()
		return nil, apperror.BadRequest("Hay errores de validación en el formulario")
	}
	w.submitting = true
	register := w.Form.RegisterInput()
	profile := w.Form.ProfileInput()
	isNewUser := w.IsNewUser
	w.mu.Unlock()

	// Whatever happens below, the flag never survives the attempt.
	defer func() {
		w.mu.Lock()
		w.submitting = false
		w.mu.Unlock()
	}()

	var err error
	if isNewUser {
		err = w.submitNewUser(ctx, register, profile)
	} else {
		err = w.submitExistingUser(ctx, profile)
	}
	if err != nil {
		return nil, w.classify(err, isNewUser)
	}

	provider, err := w.gateway.CreateProviderProfile(ctx, w.session.Token(), profile)
	if err != nil {
		return nil, w.classify(err, isNewUser)
	}

	message := "¡Perfil de proveedor creado! Está en revisión."
	if isNewUser {
		message = "¡Registro exitoso! Tu perfil de proveedor está en revisión."
	}
	w.log.Info("provider onboarding completed", "wizardId", w.ID, "providerId", provider.ID, "newUser", isNewUser)
	return &SubmitResult{Provider: provider, Message: message}, nil
}

// submitNewUser performs the account and role steps that precede profile
// creation on the new-user path.
func (w *Wizard) submitNewUser(ctx context.Context, register domain.RegisterInput, _ *domain.ProviderProfileInput) error {
	w.log.Info("creating account", "wizardId", w.ID, "email", register.Email)
	if _, err := w.session.Register(ctx, register); err != nil {
		return err
	}

	// The backend needs a moment before the fresh account is visible to
	// the role endpoint. An eventual-consistency workaround, kept explicit
	// and configurable rather than hidden in a retry loop.
	if err := w.settle(ctx); err != nil {
		return err
	}

	w.log.Info("elevating role to provider", "wizardId", w.ID)
	if err := w.session.UpgradeToProviderRole(ctx); err != nil {
		return err
	}

	return w.settle(ctx)
}

func (w *Wizard) submitExistingUser(ctx context.Context, _ *domain.ProviderProfileInput) error {
	w.log.Info("existing account becoming provider", "wizardId", w.ID)
	if !w.session.IsAuthenticated() {
		return apperror.Unauthorized("No autorizado. Es posible que necesites iniciar sesión nuevamente.")
	}
	return nil
}

func (w *Wizard) settle(ctx context.Context) error {
	if w.settleDelay <= 0 {
		return nil
	}
	select {
	case <-time.After(w.settleDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// classify maps a submission failure to exactly one user-facing message.
// Duplicate email additionally lands on the email field of the error map,
// so the form can highlight it in place.
func (w *Wizard) classify(err error, isNewUser bool) error {
	w.log.Error("provider onboarding failed", "wizardId", w.ID, "newUser", isNewUser, "err", err)

	if apperror.IsEmailExists(err) {
		w.mu.Lock()
		w.errors["email"] = "Este email ya está registrado"
		w.mu.Unlock()
		return apperror.New(http.StatusConflict, "Este email ya está registrado", err)
	}

	switch apperror.StatusCode(err) {
	case http.StatusUnauthorized:
		// The backend rejected the credential; the session must not keep it.
		w.session.HandleUnauthorized()
		return apperror.New(http.StatusUnauthorized, "No autorizado. Es posible que necesites iniciar sesión nuevamente.", err)
	case http.StatusNotFound:
		return apperror.New(http.StatusNotFound, "Servicio no disponible en este momento.", err)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return apperror.New(http.StatusBadGateway, "Error interno del servidor. Contacte al administrador.", err)
	}

	if isNewUser {
		return apperror.New(http.StatusBadGateway, "Error en el proceso de registro.", err)
	}
	return apperror.New(http.StatusBadGateway, "Error al crear perfil de proveedor. Por favor, inténtalo de nuevo.", err)
}
