// Package ledger reads and writes the ledger files of a project directory.
package ledger

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kontor-dev/kontor/internal/assets"
	"github.com/kontor-dev/kontor/internal/model"
	"github.com/kontor-dev/kontor/internal/period"
)

// Dir is the subdirectory holding the ledger files.
const Dir = "ledger"

// File names inside Dir.
const (
	IncomesFile  = "incomes.csv"
	ExpensesFile = "expenses.csv"
	AssetsFile   = "assets.csv"
)

// Store gives access to the ledger files under a project root.
type Store struct {
	root string
}

// NewStore creates a Store for root.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Path returns the path of a ledger file.
func (s *Store) Path(name string) string {
	return filepath.Join(s.root, Dir, name)
}

// Init creates the ledger directory and header-only files. Existing files
// are left alone.
func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Join(s.root, Dir), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	files := map[string]func(io.Writer) error{
		IncomesFile:  func(w io.Writer) error { return WriteIncomes(w, nil) },
		ExpensesFile: func(w io.Writer) error { return WriteExpenses(w, nil) },
		AssetsFile:   func(w io.Writer) error { return WriteAssets(w, nil) },
	}
	for name, write := range files {
		path := s.Path(name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := writeFile(path, write); err != nil {
			return err
		}
	}
	return nil
}

// SaveIncomes replaces incomes.csv.
func (s *Store) SaveIncomes(incomes []model.Income) error {
	return writeFile(s.Path(IncomesFile), func(w io.Writer) error { return WriteIncomes(w, incomes) })
}

// SaveExpenses replaces expenses.csv.
func (s *Store) SaveExpenses(expenses []model.Expense) error {
	return writeFile(s.Path(ExpensesFile), func(w io.Writer) error { return WriteExpenses(w, expenses) })
}

// SaveAssets replaces assets.csv.
func (s *Store) SaveAssets(list []assets.Asset) error {
	return writeFile(s.Path(AssetsFile), func(w io.Writer) error { return WriteAssets(w, list) })
}

// Incomes reads all incomes. A missing file yields none.
func (s *Store) Incomes() ([]model.Income, error) {
	return readFile(s.Path(IncomesFile), ReadIncomes)
}

// Expenses reads all expenses. A missing file yields none.
func (s *Store) Expenses() ([]model.Expense, error) {
	return readFile(s.Path(ExpensesFile), ReadExpenses)
}

// Assets reads the asset register. A missing file yields none.
func (s *Store) Assets() ([]assets.Asset, error) {
	return readFile(s.Path(AssetsFile), ReadAssets)
}

// Load returns the entries dated within r, including the depreciation
// postings of every year r touches that fall inside r.
func (s *Store) Load(r period.Range) (model.Ledger, error) {
	incomes, err := s.Incomes()
	if err != nil {
		return model.Ledger{}, err
	}
	expenses, err := s.Expenses()
	if err != nil {
		return model.Ledger{}, err
	}
	list, err := s.Assets()
	if err != nil {
		return model.Ledger{}, err
	}

	var l model.Ledger
	for _, inc := range incomes {
		if r.Contains(inc.Date) {
			l.Incomes = append(l.Incomes, inc)
		}
	}
	for _, exp := range expenses {
		if r.Contains(exp.Date) {
			l.Expenses = append(l.Expenses, exp)
		}
	}
	for year := r.Start.Year(); year <= r.End.Year(); year++ {
		postings, err := assets.PostingsForYear(list, year)
		if err != nil {
			return model.Ledger{}, fmt.Errorf("depreciation %d: %w", year, err)
		}
		for _, p := range postings {
			if r.Contains(p.Date) {
				l.Depreciation = append(l.Depreciation, p)
			}
		}
	}
	return l, nil
}

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	out, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return out, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
