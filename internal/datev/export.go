package datev

import (
	"bytes"
	"fmt"
	"time"

	"github.com/kontor-dev/kontor/internal/accounts"
	"github.com/kontor-dev/kontor/internal/model"
	"github.com/kontor-dev/kontor/internal/period"
)

// Content types of the two export formats.
const (
	ContentTypeCSV = "text/csv; charset=utf-8"
	ContentTypeXML = "application/xml"
)

// Format selects the wire format of an export.
type Format string

const (
	FormatCSV Format = "csv"
	FormatXML Format = "xml"
)

// ParseFormat accepts "csv" or "xml".
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatXML:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// WarnEmpty is reported when an export holds no records.
const WarnEmpty = "no records in period"

// Options configure an export.
type Options struct {
	Variant     accounts.Variant
	Period      period.Range
	Generator   string
	GeneratedAt time.Time
	Consultant  model.Optional[string]
	Client      model.Optional[string]
}

// Export is a finished payload ready to be saved.
type Export struct {
	Payload     []byte
	ContentType string
	Filename    string
	Records     int
	Warnings    []string
}

// Build converts the ledger to records and serializes them in format f.
func Build(l model.Ledger, f Format, opts Options) (Export, error) {
	// Dates are written as DDMM and re-expanded with the year of the period start.
	if opts.Period.Start.Year() != opts.Period.End.Year() {
		return Export{}, fmt.Errorf("period %s spans more than one calendar year", opts.Period)
	}
	records := BuildRecords(l, opts.Variant)
	switch f {
	case FormatCSV:
		return ExportCSV(records, opts)
	case FormatXML:
		return ExportXML(records, opts), nil
	}
	return Export{}, fmt.Errorf("unknown export format %q", f)
}

// ExportCSV serializes records in the flat format.
func ExportCSV(records []Record, opts Options) (Export, error) {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, records); err != nil {
		return Export{}, fmt.Errorf("writing records: %w", err)
	}
	return Export{
		Payload:     buf.Bytes(),
		ContentType: ContentTypeCSV,
		Filename:    filename(opts.Period, "csv"),
		Records:     len(records),
		Warnings:    warnings(records),
	}, nil
}

// ExportXML serializes records as an XML ledger import document.
func ExportXML(records []Record, opts Options) Export {
	doc := Document(Header{
		Generator:        opts.Generator,
		GeneratedAt:      opts.GeneratedAt,
		Variant:          opts.Variant,
		Period:           opts.Period,
		ConsultantNumber: opts.Consultant,
		ClientNumber:     opts.Client,
	}, records)

	warns := warnings(records)
	warns = append(warns, CheckStructure(doc)...)

	return Export{
		Payload:     []byte(doc),
		ContentType: ContentTypeXML,
		Filename:    filename(opts.Period, "xml"),
		Records:     len(records),
		Warnings:    warns,
	}
}

func warnings(records []Record) []string {
	if len(records) == 0 {
		return []string{WarnEmpty}
	}
	return ValidateAll(records)
}

func filename(r period.Range, ext string) string {
	return fmt.Sprintf("EXTF_Buchungsstapel_%s_%s.%s",
		r.Start.Format("20060102"), r.End.Format("20060102"), ext)
}
