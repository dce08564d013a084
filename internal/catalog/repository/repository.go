// Package repository implements the catalog store: loading the tabular
// price list from disk and detecting which columns carry the product
// description, dimension and unit price.
package repository

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"orcamento_backend/platform/logger"

	"github.com/xuri/excelize/v2"
)

// Entry is one matchable row of the price list. Entries are immutable
// value objects; Description is never empty.
type Entry struct {
	Description string
	Dimension   string
	Price       float64
	HasPrice    bool
}

// ColumnRoles maps semantic roles to the actual column labels found in
// the catalog file. Description and Price must both resolve for matching
// to be enabled; Dimension is optional.
type ColumnRoles struct {
	Description string
	Dimension   string
	Price       string
}

// Usable reports whether the required roles were detected.
func (r ColumnRoles) Usable() bool {
	return r.Description != "" && r.Price != ""
}

// Column name synonyms per role, matched case-insensitively by substring.
var roleSynonyms = map[string][]string{
	"description": {"descrição", "descricao", "produto", "item", "nome", "name", "description", "product"},
	"dimension":   {"dimensão", "dimensao", "tamanho", "medida", "measure", "size", "dimension"},
	"price":       {"valor final", "valor", "preço", "preco", "custo", "price", "cost"},
}

// Table is a loaded catalog file: ordered column labels plus rows keyed
// by column label.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// Repository reads the catalog file from disk.
type Repository struct {
	path string
	log  *logger.Logger
}

// New creates a repository for the given catalog file path.
func New(path string, log *logger.Logger) *Repository {
	return &Repository{path: path, log: log}
}

// Path returns the catalog file path.
func (r *Repository) Path() string {
	return r.path
}

// Load reads and parses the catalog file. Supported formats are .xlsx
// and .csv; anything else is an error. Callers degrade load errors to
// empty match results.
func (r *Repository) Load() (*Table, error) {
	if _, err := os.Stat(r.path); err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", r.path, err)
	}

	switch strings.ToLower(filepath.Ext(r.path)) {
	case ".xlsx":
		return r.loadXLSX()
	case ".csv":
		return r.loadCSV()
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", r.path)
	}
}

func (r *Repository) loadXLSX() (*Table, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets: %s", r.path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading xlsx rows: %w", err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	return buildTable(rows), nil
}

func (r *Repository) loadCSV() (*Table, error) {
	records, err := r.readCSV(';')
	if err != nil {
		return nil, err
	}

	// Files exported with a comma delimiter parse as single-column rows
	// under ';'. Retry with ',' in that case.
	if len(records) > 0 && len(records[0]) == 1 && strings.Contains(records[0][0], ",") {
		if rec, err := r.readCSV(','); err == nil {
			records = rec
		}
	}

	return buildTable(records), nil
}

func (r *Repository) readCSV(comma rune) ([][]string, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return records, nil
}

func buildTable(records [][]string) *Table {
	if len(records) == 0 {
		return &Table{}
	}

	columns := make([]string, len(records[0]))
	for i, col := range records[0] {
		columns[i] = strings.TrimSpace(col)
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}

	return &Table{Columns: columns, Rows: rows}
}

// DetectColumns resolves the semantic column roles by case-insensitive
// substring match against the known synonym lists. Missing roles are
// left empty; the caller decides whether the result is usable.
func DetectColumns(columns []string) ColumnRoles {
	var roles ColumnRoles
	roles.Description = findColumn(columns, roleSynonyms["description"])
	roles.Dimension = findColumn(columns, roleSynonyms["dimension"])
	roles.Price = findColumn(columns, roleSynonyms["price"])
	return roles
}

func findColumn(columns []string, synonyms []string) string {
	for _, col := range columns {
		lower := strings.ToLower(col)
		for _, syn := range synonyms {
			if strings.Contains(lower, syn) {
				return col
			}
		}
	}
	return ""
}

// Entries converts the table to matchable entries using the detected
// roles. Rows with an empty description are skipped.
func (t *Table) Entries(roles ColumnRoles) []Entry {
	if !roles.Usable() {
		return nil
	}

	entries := make([]Entry, 0, len(t.Rows))
	for _, row := range t.Rows {
		desc := strings.TrimSpace(row[roles.Description])
		if desc == "" {
			continue
		}

		entry := Entry{Description: desc}
		if roles.Dimension != "" {
			entry.Dimension = strings.TrimSpace(row[roles.Dimension])
		}
		if price, ok := parsePrice(row[roles.Price]); ok {
			entry.Price = price
			entry.HasPrice = true
		}
		entries = append(entries, entry)
	}
	return entries
}

// parsePrice parses a price cell, accepting both "1234.56" and the
// Brazilian "1.234,56" form, with an optional R$ prefix.
func parsePrice(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "R$")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return 0, false
	}

	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}
