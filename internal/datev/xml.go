package datev

import (
	"strconv"
	"strings"
	"time"

	"github.com/kontor-dev/kontor/internal/accounts"
	"github.com/kontor-dev/kontor/internal/model"
	"github.com/kontor-dev/kontor/internal/period"
)

const (
	// Namespace is the ledger import schema namespace.
	Namespace = "http://xml.datev.de/bedi/tps/ledger/v060"
	// SchemaVersion is written to the Header block.
	SchemaVersion = "6.0"
	// Declaration starts every document.
	Declaration = `<?xml version="1.0" encoding="UTF-8"?>`

	rootElement = "LedgerImport"
	indentWidth = 2
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Header describes the export batch.
type Header struct {
	Generator        string
	GeneratedAt      time.Time
	Variant          accounts.Variant
	Period           period.Range
	ConsultantNumber model.Optional[string]
	ClientNumber     model.Optional[string]
}

// Element renders <name>content</name> with content escaped, or <name/> when
// content is empty.
func Element(name, content string) string {
	if content == "" {
		return "<" + name + "/>"
	}
	return "<" + name + ">" + xmlEscaper.Replace(content) + "</" + name + ">"
}

// Wrap places children, one per line, between an opening and closing tag.
func Wrap(tag string, children []string) string {
	return "<" + tag + ">\n" + strings.Join(children, "\n") + "\n</" + tag + ">"
}

// Indent prefixes every non-empty line of block with n spaces.
func Indent(block string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		if l == "" {
			continue
		}
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}

// HeaderBlock renders the Header element.
func HeaderBlock(h Header) string {
	children := []string{
		Element("Version", SchemaVersion),
		Element("Generator", h.Generator),
		Element("GeneratedAt", h.GeneratedAt.UTC().Format(time.RFC3339)),
		Element("ChartOfAccounts", string(h.Variant)),
		Element("PeriodStart", h.Period.Start.Format(period.DateFormat)),
		Element("PeriodEnd", h.Period.End.Format(period.DateFormat)),
	}
	if n, ok := h.ConsultantNumber.Get(); ok {
		children = append(children, Element("ConsultantNumber", n))
	}
	if n, ok := h.ClientNumber.Get(); ok {
		children = append(children, Element("ClientNumber", n))
	}
	return Wrap("Header", indentAll(children))
}

// TransactionBlock renders one Transaction element. year expands the DDMM
// document date.
func TransactionBlock(r Record, year int) string {
	debit, credit := r.Accounts()
	children := []string{
		Element("Date", expandDate(r.DocumentDate, year)),
		Element("Amount", r.Amount.StringFixed(2)),
		Element("DebitAccount", strconv.Itoa(debit)),
		Element("CreditAccount", strconv.Itoa(credit)),
	}
	if r.Description != "" {
		children = append(children, Element("Description", r.Description))
	}
	if r.TaxCode != accounts.TaxCodeExempt {
		children = append(children, Element("TaxCode", strconv.Itoa(int(accounts.TaxCodeToRate(r.TaxCode)))))
	}
	if r.DocumentRef1 != "" {
		children = append(children, Element("DocumentNumber", r.DocumentRef1))
	}
	children = append(children, Element("Currency", currencyOf(r)))
	return Wrap("Transaction", indentAll(children))
}

// ConsolidateBlock renders the Consolidate element holding all transactions.
func ConsolidateBlock(records []Record, year int) string {
	txns := make([]string, len(records))
	for i, r := range records {
		txns[i] = TransactionBlock(r, year)
	}
	return Wrap("Consolidate", indentAll(txns))
}

// Document assembles the full XML document.
func Document(h Header, records []Record) string {
	year := h.Period.Start.Year()
	var b strings.Builder
	b.WriteString(Declaration)
	b.WriteString("\n<" + rootElement + ` xmlns="` + Namespace + `">` + "\n")
	b.WriteString(Indent(HeaderBlock(h), indentWidth))
	b.WriteString("\n")
	b.WriteString(Indent(ConsolidateBlock(records, year), indentWidth))
	b.WriteString("\n</" + rootElement + ">\n")
	return b.String()
}

// CheckStructure performs a lightweight structural check of doc and returns
// one finding per missing part.
func CheckStructure(doc string) []string {
	var findings []string
	if !strings.HasPrefix(doc, "<?xml") {
		findings = append(findings, "XML declaration missing at start of document")
	}
	if !strings.Contains(doc, Namespace) {
		findings = append(findings, "namespace "+Namespace+" missing")
	}
	if !strings.Contains(doc, "<"+rootElement) {
		findings = append(findings, "root element "+rootElement+" missing")
	}
	if !strings.Contains(doc, "<Consolidate") {
		findings = append(findings, "Consolidate section missing")
	}
	return findings
}

func indentAll(blocks []string) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = Indent(b, indentWidth)
	}
	return out
}

// expandDate turns DDMM into YYYY-MM-DD.
func expandDate(ddmm string, year int) string {
	if len(ddmm) != 4 {
		return ddmm
	}
	return strconv.Itoa(year) + "-" + ddmm[2:] + "-" + ddmm[:2]
}

func currencyOf(r Record) string {
	if r.Currency == "" {
		return Currency
	}
	return r.Currency
}
