package wizard

import "github.com/JuanVergara-9/miservicio-api/internal/domain"

// FormView is the redacted form snapshot handed to clients. Credentials
// never leave the server; attachments surface as previews and filenames.
type FormView struct {
	Email               string `json:"email"`
	TermsAccepted       bool   `json:"terms"`
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Phone               string `json:"phone"`
	Birthdate           string `json:"birthdate"`
	NationalID          string `json:"dniCuit"`
	Province            string `json:"province"`
	City                string `json:"city"`
	Address             string `json:"address"`
	Categories          []int  `json:"categories"`
	Subcategories       []int  `json:"subcategories"`
	Description         string `json:"description"`
	ProfilePreview      string `json:"profilePreview,omitempty"`
	CertificateFileName string `json:"certificateFileName,omitempty"`
	PortfolioFileName   string `json:"portfolioFileName,omitempty"`
}

// Snapshot is the full wizard state as one consistent read.
type Snapshot struct {
	ID           string   `json:"id"`
	IsNewUser    bool     `json:"isNewUser"`
	CurrentStep  int      `json:"currentStep"`
	TotalSteps   int      `json:"totalSteps"`
	Submitting   bool     `json:"submitting"`
	Errors       ErrorMap `json:"errors"`
	ErrorSummary []string `json:"errorSummary"`
	Form         FormView `json:"form"`
}

func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	errs := make(ErrorMap, len(w.errors))
	for k, v := range w.errors {
		errs[k] = v
	}
	summary := make([]string, 0, len(w.errors))
	for _, field := range fieldOrder {
		if msg, ok := w.errors[field]; ok {
			summary = append(summary, msg)
		}
	}

	return Snapshot{
		ID:           w.ID,
		IsNewUser:    w.IsNewUser,
		CurrentStep:  w.step,
		TotalSteps:   LastStep,
		Submitting:   w.submitting,
		Errors:       errs,
		ErrorSummary: summary,
		Form: FormView{
			Email:               w.Form.Email,
			TermsAccepted:       w.Form.Terms,
			FirstName:           w.Form.FirstName,
			LastName:            w.Form.LastName,
			Phone:               w.Form.Phone,
			Birthdate:           w.Form.Birthdate,
			NationalID:          w.Form.NationalID,
			Province:            w.Form.Province,
			City:                w.Form.City,
			Address:             w.Form.Address,
			Categories:          append([]int{}, w.Form.Categories...),
			Subcategories:       append([]int{}, w.Form.Subcategories...),
			Description:         w.Form.Description,
			ProfilePreview:      w.Form.ProfilePreview,
			CertificateFileName: w.Form.CertificateFileName,
			PortfolioFileName:   w.Form.PortfolioFileName,
		},
	}
}

// SetField applies one field-change event under the wizard lock.
func (w *Wizard) SetField(field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Form.Set(field, value)
}

func (w *Wizard) SelectCategory(categoryID int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Form.SelectCategory(categoryID)
}

func (w *Wizard) DeselectCategory(categoryID int, catalog []domain.Subcategory) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Form.DeselectCategory(categoryID, catalog)
}

func (w *Wizard) SelectSubcategory(sub domain.Subcategory) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Form.SelectSubcategory(sub)
}

func (w *Wizard) DeselectSubcategory(sub domain.Subcategory, catalog []domain.Subcategory) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Form.DeselectSubcategory(sub, catalog)
}
