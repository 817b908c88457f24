package wizard

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrorMap carries at most one message per field. A step is valid iff the
// map for it is empty.
type ErrorMap map[string]string

var (
	// Unanchored on purpose: any substring shaped like x@y.z passes.
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	digitPattern = regexp.MustCompile(`[^0-9]`)
	dniPattern   = regexp.MustCompile(`^[0-9]{7,11}$`)
)

// ValidateStep runs the rules for a single step and nothing else. Later
// steps are never validated early, earlier steps are never re-validated.
func ValidateStep(step int, data *FormData, isNewUser bool) ErrorMap {
	errs := ErrorMap{}

	switch step {
	case 1:
		if !isNewUser {
			break
		}
		if strings.TrimSpace(data.Email) == "" {
			errs["email"] = "El email es obligatorio"
		} else if !emailPattern.MatchString(data.Email) {
			errs["email"] = "Formato de email inválido"
		}

		if data.Password == "" {
			errs["password"] = "La contraseña es obligatoria"
		} else if len(data.Password) < 8 {
			errs["password"] = "La contraseña debe tener al menos 8 caracteres"
		}

		if data.Password != data.ConfirmPassword {
			errs["confirmPassword"] = "Las contraseñas no coinciden"
		}

		if !data.Terms {
			errs["terms"] = "Debes aceptar los términos y condiciones"
		}

	case 2:
		if strings.TrimSpace(data.FirstName) == "" {
			errs["firstName"] = "El nombre es obligatorio"
		}
		if strings.TrimSpace(data.LastName) == "" {
			errs["lastName"] = "El apellido es obligatorio"
		}

		if data.Phone == "" {
			errs["phone"] = "El teléfono es obligatorio"
		} else if !phonePattern.MatchString(data.Phone) {
			errs["phone"] = "Formato de teléfono inválido"
		}

		if data.Birthdate == "" {
			errs["birthdate"] = "La fecha de nacimiento es obligatoria"
		} else if !birthYearInRange(data.Birthdate) {
			errs["birthdate"] = "Debes ser mayor de 18 años"
		}

		if strings.TrimSpace(data.NationalID) == "" {
			errs["dniCuit"] = "El DNI/CUIT es obligatorio"
		} else if !dniPattern.MatchString(digitPattern.ReplaceAllString(data.NationalID, "")) {
			errs["dniCuit"] = "Formato de DNI/CUIT inválido"
		}

	case 3:
		if strings.TrimSpace(data.Province) == "" {
			errs["province"] = "La provincia es obligatoria"
		}
		if strings.TrimSpace(data.City) == "" {
			errs["city"] = "La ciudad es obligatoria"
		}
		if strings.TrimSpace(data.Address) == "" {
			errs["address"] = "La dirección es obligatoria"
		}

	case 4:
		if len(data.Categories) == 0 {
			errs["categories"] = "Debes seleccionar al menos una categoría"
		}

		if strings.TrimSpace(data.Description) == "" {
			errs["description"] = "La descripción de tus servicios es obligatoria"
		} else if utf8.RuneCountInString(data.Description) < 50 {
			errs["description"] = "La descripción debe tener al menos 50 caracteres"
		}

	case 5:
		// Attachments are optional, no rules.
	}

	return errs
}

// birthYearInRange applies the age check at calendar-year granularity:
// birth year between currentYear-100 and currentYear-18 inclusive. Someone
// who turns 18 later this year already passes; this coarseness is the
// documented behavior, not a bug to fix.
func birthYearInRange(birthdate string) bool {
	year, ok := parseBirthYear(birthdate)
	if !ok {
		return false
	}
	currentYear := time.Now().Year()
	return year >= currentYear-100 && year <= currentYear-18
}

func parseBirthYear(v string) (int, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Year(), true
		}
	}
	return 0, false
}
