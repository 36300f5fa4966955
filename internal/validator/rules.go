package validator

import (
	"github.com/go-playground/validator/v10"
)

// marketplace-specific rules

func registerCustomRules(v *validator.Validate) {
	// user_role: roles a client-facing request may carry. Admin is seeded,
	// never registered through the API.
	_ = v.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "client", "freelancer":
			return true
		}
		return false
	})

	// rating: 1..5 star review ratings.
	_ = v.RegisterValidation("rating", func(fl validator.FieldLevel) bool {
		r := fl.Field().Int()
		return r >= 1 && r <= 5
	})
}
