package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/Pesokrava/reviews_app/internal/domain"
)

// Shared validator instance to avoid creating multiple instances
var validate *validator.Validate

var ratingTag = fmt.Sprintf("min=%d,max=%d", domain.MinRating, domain.MaxRating)

func init() {
	validate = validator.New()
}

// Get returns the shared validator instance
func Get() *validator.Validate {
	return validate
}

// Rating checks that rating lies in the inclusive review rating range
func Rating(rating int) error {
	return validate.Var(rating, ratingTag)
}
