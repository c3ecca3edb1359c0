package accounts

import "github.com/kontor-dev/kontor/internal/model"

// DATEV BU-Schlüssel for the supported VAT rates.
const (
	TaxCodeExempt   = 0
	TaxCodeReduced  = 2
	TaxCodeStandard = 3
)

// RateToTaxCode converts a VAT rate to its tax code. Unknown rates map to the
// exempt code.
func RateToTaxCode(rate model.TaxRate) int {
	switch rate {
	case model.RateStandard:
		return TaxCodeStandard
	case model.RateReduced:
		return TaxCodeReduced
	default:
		return TaxCodeExempt
	}
}

// TaxCodeToRate is the inverse of RateToTaxCode.
func TaxCodeToRate(code int) model.TaxRate {
	switch code {
	case TaxCodeStandard:
		return model.RateStandard
	case TaxCodeReduced:
		return model.RateReduced
	default:
		return model.RateZero
	}
}

// ValidTaxCode reports whether code is one of the three permitted codes.
func ValidTaxCode(code int) bool {
	switch code {
	case TaxCodeExempt, TaxCodeReduced, TaxCodeStandard:
		return true
	}
	return false
}
