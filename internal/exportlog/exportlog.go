// Package exportlog keeps an append-only CSV record of written exports.
package exportlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kontor-dev/kontor/internal/period"
)

// Entry is one row in the export log.
type Entry struct {
	ID        uuid.UUID
	Timestamp time.Time
	Format    string
	Period    period.Range
	Records   int
	Warnings  int
	File      string
}

// Header is the CSV header for export-log.csv.
const Header = "id,timestamp,format,period_start,period_end,records,warnings,file"

// File is the log path relative to the project root.
const File = "logs/export-log.csv"

const (
	numFields      = 8
	logDir         = "logs"
	colID          = 0
	colTimestamp   = 1
	colFormat      = 2
	colPeriodStart = 3
	colPeriodEnd   = 4
	colRecords     = 5
	colWarnings    = 6
	colFile        = 7
)

// NewEntry stamps an entry with a fresh id and the current time.
func NewEntry(format string, r period.Range, records, warnings int, file string) Entry {
	return Entry{
		ID:        uuid.New(),
		Timestamp: time.Now().UTC().Truncate(time.Second),
		Format:    format,
		Period:    r,
		Records:   records,
		Warnings:  warnings,
		File:      file,
	}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colID] = e.ID.String()
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colFormat] = e.Format
	row[colPeriodStart] = e.Period.Start.Format(period.DateFormat)
	row[colPeriodEnd] = e.Period.End.Format(period.DateFormat)
	row[colRecords] = strconv.Itoa(e.Records)
	row[colWarnings] = strconv.Itoa(e.Warnings)
	row[colFile] = e.File
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	id, err := uuid.Parse(record[colID])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing id %q: %w", record[colID], err)
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	r, err := period.Between(record[colPeriodStart], record[colPeriodEnd])
	if err != nil {
		return Entry{}, err
	}

	records, err := strconv.Atoi(record[colRecords])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing records %q: %w", record[colRecords], err)
	}
	warnings, err := strconv.Atoi(record[colWarnings])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing warnings %q: %w", record[colWarnings], err)
	}

	return Entry{
		ID:        id,
		Timestamp: ts,
		Format:    record[colFormat],
		Period:    r,
		Records:   records,
		Warnings:  warnings,
		File:      record[colFile],
	}, nil
}

// Append writes entries to <repoRoot>/logs/export-log.csv, creating the file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, File)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening export log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/export-log.csv.
// Returns an empty slice if the file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(repoRoot, File))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening export log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

// Find returns the entry with id.
func Find(repoRoot string, id uuid.UUID) (Entry, bool, error) {
	entries, err := Read(repoRoot)
	if err != nil {
		return Entry{}, false, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading export log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
