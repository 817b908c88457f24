package wizard

import (
	"log/slog"
	"sync"
	"time"

	"github.com/JuanVergara-9/miservicio-api/internal/gateway"
	"github.com/JuanVergara-9/miservicio-api/internal/session"
)

const (
	FirstStep = 1
	LastStep  = 5
)

// fieldOrder fixes the order fields appear in the aggregate error
// summary: form order, top to bottom.
var fieldOrder = []string{
	"email", "password", "confirmPassword", "terms",
	"firstName", "lastName", "phone", "birthdate", "dniCuit",
	"province", "city", "address",
	"categories", "description",
}

// Wizard drives one become-a-provider session: the form data, the current
// step, the last validation outcome and the submission state. Safe for
// concurrent use; every entry point takes the lock.
type Wizard struct {
	mu sync.Mutex

	ID        string
	IsNewUser bool
	Form      *FormData

	step       int
	errors     ErrorMap
	submitting bool
	previewWG  sync.WaitGroup

	session     *session.Manager
	gateway     gateway.Client
	settleDelay time.Duration
	log         *slog.Logger

	// onStepChange fires after every step transition, the scroll-to-top
	// analogue of the original flow.
	onStepChange func(step int)
}

func New(id string, isNewUser bool, sess *session.Manager, gw gateway.Client, settleDelay time.Duration, log *slog.Logger) *Wizard {
	return &Wizard{
		ID:          id,
		IsNewUser:   isNewUser,
		Form:        NewFormData(),
		step:        FirstStep,
		errors:      ErrorMap{},
		session:     sess,
		gateway:     gw,
		settleDelay: settleDelay,
		log:         log,
	}
}

func (w *Wizard) OnStepChange(fn func(step int)) {
	w.mu.Lock()
	w.onStepChange = fn
	w.mu.Unlock()
}

func (w *Wizard) CurrentStep() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// Errors returns a copy of the per-field messages from the last
// validation pass.
func (w *Wizard) Errors() ErrorMap {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(ErrorMap, len(w.errors))
	for k, v := range w.errors {
		out[k] = v
	}
	return out
}

// ErrorSummary flattens the current error map into a list ordered by form
// position. Always derived from the same map the per-field view uses, so
// the two can never disagree.
func (w *Wizard) ErrorSummary() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.errors))
	for _, field := range fieldOrder {
		if msg, ok := w.errors[field]; ok {
			out = append(out, msg)
		}
	}
	return out
}

// Next advances one step when the current step validates. At the last
// step it is a no-op beyond re-validation.
func (w *Wizard) Next() (int, ErrorMap) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.validateCurrentLocked() {
		return w.step, w.errors
	}
	if w.step < LastStep {
		w.setStepLocked(w.step + 1)
	}
	return w.step, ErrorMap{}
}

// Prev steps back unconditionally, floored at the first step. Collected
// data is kept, errors are not re-raised.
func (w *Wizard) Prev() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step > FirstStep {
		w.setStepLocked(w.step - 1)
	}
	return w.step
}

// GoTo jumps to an arbitrary step. Backward jumps are unconditional and
// the same step is a no-op. Forward jumps validate only the current step
// and then move directly to target: intermediate steps are not validated.
// That permissiveness is intentional and relied upon.
func (w *Wizard) GoTo(target int) (int, ErrorMap) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if target < FirstStep || target > LastStep {
		return w.step, w.errors
	}

	switch {
	case target < w.step:
		w.setStepLocked(target)
	case target == w.step:
		// Already here.
	default:
		if !w.validateCurrentLocked() {
			return w.step, w.errors
		}
		w.setStepLocked(target)
	}
	return w.step, ErrorMap{}
}

// Validate re-runs the current step's rules without moving.
func (w *Wizard) Validate() ErrorMap {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.validateCurrentLocked()
	out := make(ErrorMap, len(w.errors))
	for k, v := range w.errors {
		out[k] = v
	}
	return out
}

// validateCurrentLocked recomputes the error map from scratch. Stale
// messages never survive a pass.
func (w *Wizard) validateCurrentLocked() bool {
	w.errors = ValidateStep(w.step, w.Form, w.IsNewUser)
	return len(w.errors) == 0
}

func (w *Wizard) setStepLocked(step int) {
	w.step = step
	if w.onStepChange != nil {
		w.onStepChange(step)
	}
}
