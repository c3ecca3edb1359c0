package exportlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kontor-dev/kontor/internal/period"
)

var testTime = time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		ID:        uuid.MustParse("6f1c2a4e-2b1d-4a8e-9c4b-0d6b7e1f2a3c"),
		Timestamp: testTime,
		Format:    "csv",
		Period:    period.Quarter(2025, 1),
		Records:   42,
		Warnings:  1,
		File:      "exports/EXTF_Buchungsstapel_20250101_20250331.csv",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 42, entries[0].Records)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := NewEntry("xml", period.Year(2025), 7, 0, "exports/x.xml")
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "csv", entries[0].Format)
	assert.Equal(t, "xml", entries[1].Format)
	assert.Equal(t, e2.ID, entries[1].ID)

	data, err := os.ReadFile(filepath.Join(dir, "logs", "export-log.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header), "header written once")
}

func TestRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := testEntry()
	require.NoError(t, Append(dir, []Entry{original}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, original.ID, got.ID)
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, original.Period, got.Period)
	assert.Equal(t, original.Warnings, got.Warnings)
	assert.Equal(t, original.File, got.File)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "export-log.csv"), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	e := testEntry()
	require.NoError(t, Append(dir, []Entry{NewEntry("csv", period.Year(2024), 1, 0, "a.csv"), e}))

	got, ok, err := Find(dir, e.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, e.File, got.File)

	_, ok, err = Find(dir, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewEntry_UniqueIDs(t *testing.T) {
	a := NewEntry("csv", period.Year(2025), 0, 1, "a.csv")
	b := NewEntry("csv", period.Year(2025), 0, 1, "a.csv")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, time.UTC, a.Timestamp.Location())
}

func TestMarshalEntry(t *testing.T) {
	row := MarshalEntry(testEntry())
	assert.Equal(t, []string{
		"6f1c2a4e-2b1d-4a8e-9c4b-0d6b7e1f2a3c",
		"2025-04-02T09:30:00Z",
		"csv",
		"2025-01-01",
		"2025-03-31",
		"42",
		"1",
		"exports/EXTF_Buchungsstapel_20250101_20250331.csv",
	}, row)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	assert.ErrorContains(t, err, "expected 8 fields")

	row := MarshalEntry(testEntry())
	row[colID] = "not-a-uuid"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing id")

	row = MarshalEntry(testEntry())
	row[colRecords] = "many"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing records")
}
