package trip

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRequest marks a trip form that failed boundary validation.
var ErrInvalidRequest = errors.New("invalid trip request")

// ParseFuelType matches s exactly against the closed fuel enum.
func ParseFuelType(s string) (FuelType, error) {
	f := FuelType(s)
	if !f.Valid() {
		return "", fmt.Errorf("%w: unknown fuel type %q", ErrInvalidRequest, s)
	}
	return f, nil
}

// Validate applies the form rules: every text field is required and the fuel type must be
// one of FuelTypes. The year is free text and is not checked for digits.
func (r Request) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"startCity", r.StartCity},
		{"endCity", r.EndCity},
		{"vehicle.model", r.Vehicle.Model},
		{"vehicle.year", r.Vehicle.Year},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidRequest, f.field)
		}
	}
	if !r.Vehicle.FuelType.Valid() {
		return fmt.Errorf("%w: vehicle.fuelType %q is not one of Gasolina, Etanol, Diesel, Flex", ErrInvalidRequest, r.Vehicle.FuelType)
	}
	return nil
}

// Normalized returns a copy with surrounding whitespace removed from the text fields.
func (r Request) Normalized() Request {
	r.StartCity = strings.TrimSpace(r.StartCity)
	r.EndCity = strings.TrimSpace(r.EndCity)
	r.Vehicle.Model = strings.TrimSpace(r.Vehicle.Model)
	r.Vehicle.Year = strings.TrimSpace(r.Vehicle.Year)
	return r
}
