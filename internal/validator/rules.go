package validator

import (
	"log"

	"climatework_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Rules are registered at startup; failing here means the
			// binary is misbuilt.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-type", validateUserType)
	mustRegister("is-salary-type", validateSalaryType)
	mustRegister("is-proficiency", validateProficiency)
}

func validateUserType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' handles empties
	}
	return models.ValidUserType(models.UserType(value))
}

func validateSalaryType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "annual", "hourly":
		return true
	}
	return false
}

func validateProficiency(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "beginner", "intermediate", "advanced", "expert":
		return true
	}
	return false
}
