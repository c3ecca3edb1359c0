package datev

import "github.com/shopspring/decimal"

// DebitCredit is the Soll/Haben-Kennzeichen of a record.
type DebitCredit string

const (
	Debit  DebitCredit = "S"
	Credit DebitCredit = "H"
)

// Currency is the only currency this exporter writes.
const Currency = "EUR"

// MaxDescription is the Buchungstext length limit in runes.
const MaxDescription = 60

// Record is one booking line, independent of the wire format. Fields after
// Description are carried only so rows have the full column set.
type Record struct {
	Amount         decimal.Decimal
	DebitCredit    DebitCredit
	Currency       string
	ExchangeRate   decimal.Decimal
	BaseAmount     decimal.Decimal
	Account        int
	CounterAccount int
	TaxCode        int
	DocumentDate   string // DDMM
	DocumentRef1   string
	DocumentRef2   string
	Discount       decimal.Decimal
	Description    string

	BlockFlag           int
	AddressNumber       string
	PartnerBank         int
	BusinessCase        int
	InterestBlock       int
	DocumentLink        string
	DocumentInfoType    string
	DocumentInfoContent string
}

// Accounts returns the debit and credit account of r. Debit records book the
// account against the counter account, credit records the other way round.
func (r Record) Accounts() (debit, credit int) {
	if r.DebitCredit == Credit {
		return r.CounterAccount, r.Account
	}
	return r.Account, r.CounterAccount
}
