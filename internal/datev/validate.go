package datev

import (
	"fmt"

	"github.com/kontor-dev/kontor/internal/accounts"
)

// Validate checks r against the field rules of the booking format and returns
// one message per violation. An empty result means r is valid.
func Validate(r Record) []string {
	var errs []string

	if !r.Amount.IsPositive() {
		errs = append(errs, fmt.Sprintf("amount must be positive, got %s", r.Amount.StringFixed(2)))
	}

	if r.Account == 0 {
		errs = append(errs, "account is missing")
	}

	if r.CounterAccount == 0 {
		errs = append(errs, "counter account is missing")
	}

	if !validDocumentDate(r.DocumentDate) {
		errs = append(errs, fmt.Sprintf("document date %q must be 4 digits (DDMM)", r.DocumentDate))
	}

	if r.DebitCredit != Debit && r.DebitCredit != Credit {
		errs = append(errs, fmt.Sprintf("debit/credit flag %q must be %q or %q", r.DebitCredit, Debit, Credit))
	}

	if !accounts.ValidTaxCode(r.TaxCode) {
		errs = append(errs, fmt.Sprintf("tax code %d must be one of %d, %d, %d",
			r.TaxCode, accounts.TaxCodeExempt, accounts.TaxCodeReduced, accounts.TaxCodeStandard))
	}

	return errs
}

// ValidateAll validates every record, prefixing messages with the 1-based
// record number.
func ValidateAll(records []Record) []string {
	var errs []string
	for i, r := range records {
		for _, msg := range Validate(r) {
			errs = append(errs, fmt.Sprintf("record %d: %s", i+1, msg))
		}
	}
	return errs
}

func validDocumentDate(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
