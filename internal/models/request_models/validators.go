package request_models

import (
	"github.com/go-playground/validator/v10"
	dbm "tripplanner/internal/models/db_models"
)

// RegisterValidators adds the enum checks used in binding tags.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("place_category", func(fl validator.FieldLevel) bool {
		return dbm.PlaceCategory(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("transport_mode", func(fl validator.FieldLevel) bool {
		return dbm.TransportMode(fl.Field().String()).Valid()
	})
}
