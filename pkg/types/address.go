package types

import (
	"strings"

	pkgerrors "github.com/greenhaven/storefront-backend/pkg/errors"
)

// ShippingAddress identifies where an order ships. It exists to resolve the
// buyer's taxing jurisdiction and to pass through to the payment provider;
// no geocoding is performed.
type ShippingAddress struct {
	FirstName    string  `json:"first_name" validate:"required"`
	LastName     string  `json:"last_name" validate:"required"`
	Address1     string  `json:"address1" validate:"required"`
	Address2     *string `json:"address2,omitempty"`
	City         string  `json:"city" validate:"required"`
	ProvinceCode string  `json:"province_code" validate:"required,len=2"`
	PostalCode   string  `json:"postal_code" validate:"required"`
	CountryCode  string  `json:"country_code" validate:"required"`
}

// Jurisdiction returns the normalized 2-letter taxing region code.
func (a ShippingAddress) Jurisdiction() string {
	return strings.ToUpper(strings.TrimSpace(a.ProvinceCode))
}

// Validate checks the fields the tax and checkout paths depend on.
func (a ShippingAddress) Validate() error {
	if strings.TrimSpace(a.Address1) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "address1 is required")
	}
	if strings.TrimSpace(a.City) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	}
	if len(a.Jurisdiction()) != 2 {
		return pkgerrors.New(pkgerrors.CodeValidation, "province code must be 2 letters")
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "postal code is required")
	}
	return nil
}
