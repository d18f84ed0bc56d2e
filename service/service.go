// Package service holds the business operations behind the HTTP API. Each
// service composes store calls and enforces ownership and input rules.
package service

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"food-truck-api/apperrors"
	"food-truck-api/models"
	"food-truck-api/store"
)

var validate = newValidator()

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateInput runs struct tags and reports the first failing field.
func validateInput(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Validation("input", err.Error())
	}
	fe := verrs[0]
	return apperrors.Validation(fe.Field(), describeTag(fe))
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// ownedTruck loads the truck and checks that driverID operates it.
func ownedTruck(ctx context.Context, st *store.Store, truckID, driverID string) (*models.Truck, error) {
	truck, err := st.GetTruck(ctx, truckID)
	if err != nil {
		return nil, err
	}
	if truck.DriverID != driverID {
		return nil, apperrors.Forbidden("truck does not belong to you")
	}
	return truck, nil
}
