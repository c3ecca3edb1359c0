package datev

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kontor-dev/kontor/internal/accounts"
	"github.com/kontor-dev/kontor/internal/model"
	"github.com/kontor-dev/kontor/internal/period"
)

// parsedDoc mirrors the document for decoding in tests.
type parsedDoc struct {
	XMLName xml.Name `xml:"http://xml.datev.de/bedi/tps/ledger/v060 LedgerImport"`
	Header  struct {
		Version          string
		Generator        string
		GeneratedAt      string
		ChartOfAccounts  string
		PeriodStart      string
		PeriodEnd        string
		ConsultantNumber *string
		ClientNumber     *string
	}
	Transactions []parsedTxn `xml:"Consolidate>Transaction"`
}

type parsedTxn struct {
	Date           string
	Amount         string
	DebitAccount   int
	CreditAccount  int
	Description    *string
	TaxCode        *string
	DocumentNumber *string
	Currency       string
}

func testHeader() Header {
	return Header{
		Generator:   "kontor test",
		GeneratedAt: time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC),
		Variant:     accounts.SKR03,
		Period:      period.Quarter(2025, 1),
	}
}

func decode(t *testing.T, doc string) parsedDoc {
	t.Helper()
	var p parsedDoc
	require.NoError(t, xml.Unmarshal([]byte(doc), &p), doc)
	return p
}

func TestElement(t *testing.T) {
	assert.Equal(t, "<Amount>10.00</Amount>", Element("Amount", "10.00"))
	assert.Equal(t, "<Description/>", Element("Description", ""))
	assert.Equal(t,
		"<Description>Tom &amp; Jerry &lt;GmbH&gt; &quot;Q&quot; &apos;s</Description>",
		Element("Description", `Tom & Jerry <GmbH> "Q" 's`))
	assert.Equal(t, "<X>ä€</X>", Element("X", "ä€"), "only five characters are escaped")
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "<Tag>\n\n</Tag>", Wrap("Tag", nil))
	assert.Equal(t, "<Tag>\n<A/>\n<B/>\n</Tag>", Wrap("Tag", []string{"<A/>", "<B/>"}))
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a\n  b", Indent("a\nb", 2))
	assert.Equal(t, "    x", Indent("x", 4))
	assert.Equal(t, "", Indent("", 2))
	assert.Equal(t, "  a\n\n  b", Indent("a\n\nb", 2))
}

func TestTransactionBlock_AccountSwap(t *testing.T) {
	expense := Record{
		Amount:         dec("23.80"),
		DebitCredit:    Debit,
		Currency:       Currency,
		Account:        4925,
		CounterAccount: 1361,
		TaxCode:        accounts.TaxCodeStandard,
		DocumentDate:   "1203",
	}

	block := TransactionBlock(expense, 2025)
	assert.Contains(t, block, "<DebitAccount>4925</DebitAccount>")
	assert.Contains(t, block, "<CreditAccount>1361</CreditAccount>")

	asCredit := expense
	asCredit.DebitCredit = Credit
	block = TransactionBlock(asCredit, 2025)
	assert.Contains(t, block, "<DebitAccount>1361</DebitAccount>")
	assert.Contains(t, block, "<CreditAccount>4925</CreditAccount>")
}

func TestTransactionBlock_OptionalElements(t *testing.T) {
	r := FromDepreciation(model.Depreciation{Date: date(2025, 12, 31), AssetName: "Laptop", Amount: dec("500")}, accounts.SKR03)
	block := TransactionBlock(r, 2025)

	assert.NotContains(t, block, "<TaxCode", "exempt code is omitted")
	assert.NotContains(t, block, "<DocumentNumber", "empty reference is omitted")
	assert.Contains(t, block, "<Description>Depreciation: Laptop</Description>")
	assert.Contains(t, block, "<Date>2025-12-31</Date>")
	assert.Contains(t, block, "<Amount>500.00</Amount>")
	assert.Contains(t, block, "<Currency>EUR</Currency>")

	r.Description = ""
	assert.NotContains(t, TransactionBlock(r, 2025), "<Description")
}

func TestTransactionBlock_ElementOrder(t *testing.T) {
	r := FromIncome(sampleIncome(), accounts.SKR03)
	block := TransactionBlock(r, 2025)

	order := []string{"<Date>", "<Amount>", "<DebitAccount>", "<CreditAccount>", "<Description>", "<TaxCode>", "<DocumentNumber>", "<Currency>"}
	last := -1
	for _, tag := range order {
		idx := strings.Index(block, tag)
		require.GreaterOrEqual(t, idx, 0, "%s missing", tag)
		assert.Greater(t, idx, last, "%s out of order", tag)
		last = idx
	}
	assert.Contains(t, block, "<TaxCode>19</TaxCode>")
	assert.Contains(t, block, "<DocumentNumber>RE-2025-017</DocumentNumber>")
}

func TestTransactionBlock_ReducedTaxCode(t *testing.T) {
	r := validRecord()
	r.TaxCode = accounts.TaxCodeReduced
	assert.Contains(t, TransactionBlock(r, 2025), "<TaxCode>7</TaxCode>")
}

func TestDocument(t *testing.T) {
	records := []Record{
		FromIncome(sampleIncome(), accounts.SKR03),
		FromExpense(sampleExpense(), accounts.SKR03),
	}
	records[1].Description = `Hetzner & Co: "Server" <cx21>`

	doc := Document(testHeader(), records)

	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`+"\n"))
	assert.Contains(t, doc, `<LedgerImport xmlns="http://xml.datev.de/bedi/tps/ledger/v060">`)
	assert.Contains(t, doc, "\n  <Header>\n    <Version>6.0</Version>")
	assert.Contains(t, doc, "\n  <Consolidate>\n    <Transaction>\n      <Date>2025-03-07</Date>")
	assert.Empty(t, CheckStructure(doc))

	p := decode(t, doc)
	assert.Equal(t, SchemaVersion, p.Header.Version)
	assert.Equal(t, "kontor test", p.Header.Generator)
	assert.Equal(t, "2025-04-02T09:30:00Z", p.Header.GeneratedAt)
	assert.Equal(t, "SKR03", p.Header.ChartOfAccounts)
	assert.Equal(t, "2025-01-01", p.Header.PeriodStart)
	assert.Equal(t, "2025-03-31", p.Header.PeriodEnd)
	assert.Nil(t, p.Header.ConsultantNumber)
	assert.Nil(t, p.Header.ClientNumber)

	require.Len(t, p.Transactions, 2)
	inc := p.Transactions[0]
	assert.Equal(t, "2025-03-07", inc.Date)
	assert.Equal(t, "1190.00", inc.Amount)
	assert.Equal(t, 1200, inc.DebitAccount, "credit record swaps accounts")
	assert.Equal(t, 8400, inc.CreditAccount)
	require.NotNil(t, inc.TaxCode)
	assert.Equal(t, "19", *inc.TaxCode)
	assert.Equal(t, "EUR", inc.Currency)

	exp := p.Transactions[1]
	assert.Equal(t, 4925, exp.DebitAccount)
	assert.Equal(t, 1361, exp.CreditAccount)
	require.NotNil(t, exp.Description)
	assert.Equal(t, `Hetzner & Co: "Server" <cx21>`, *exp.Description)
	require.NotNil(t, exp.DocumentNumber)
	assert.Equal(t, "hetzner-R0042", *exp.DocumentNumber)
}

func TestDocument_OptionalHeaderNumbers(t *testing.T) {
	h := testHeader()
	h.ConsultantNumber = model.Some("1234567")
	h.ClientNumber = model.Some("10001")

	p := decode(t, Document(h, nil))
	require.NotNil(t, p.Header.ConsultantNumber)
	assert.Equal(t, "1234567", *p.Header.ConsultantNumber)
	require.NotNil(t, p.Header.ClientNumber)
	assert.Equal(t, "10001", *p.Header.ClientNumber)
}

func TestDocument_Empty(t *testing.T) {
	doc := Document(testHeader(), nil)
	assert.Contains(t, doc, "  <Consolidate>\n\n  </Consolidate>")
	for _, line := range strings.Split(doc, "\n") {
		assert.False(t, line != "" && strings.TrimSpace(line) == "", "whitespace-only line in %q", doc)
	}
	assert.Empty(t, CheckStructure(doc))
	assert.Empty(t, decode(t, doc).Transactions)
}

func TestCheckStructure(t *testing.T) {
	findings := CheckStructure("<Foo/>")
	assert.Len(t, findings, 4)

	doc := Document(testHeader(), nil)
	assert.Len(t, CheckStructure(" "+doc), 1, "declaration must be at the very start")
	assert.Len(t, CheckStructure(strings.Replace(doc, "<Consolidate>", "<Batch>", 1)), 1)
}
