// Package service implements product matching over the catalog snapshot.
package service

import (
	"strings"

	"orcamento_backend/internal/catalog/repository"
	"orcamento_backend/platform/logger"
)

// Source provides the catalog entries the matcher searches over.
type Source interface {
	Entries() ([]repository.Entry, error)
}

// Matcher resolves free-text queries to catalog entries.
type Matcher struct {
	source Source
	log    *logger.Logger
}

// NewMatcher creates a matcher over the given catalog source.
func NewMatcher(source Source, log *logger.Logger) *Matcher {
	return &Matcher{source: source, log: log}
}

// searchTerms tokenizes a query into lowercase terms longer than two
// characters. Short tokens are noise (articles, prepositions) and are
// discarded.
func searchTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 2 {
			terms = append(terms, f)
		}
	}
	return terms
}

// Find returns catalog entries matching the query. Phase 1 keeps rows
// whose description contains every search term (substring containment,
// catalog order preserved). Phase 2 runs only when phase 1 found nothing
// and the query has more than one term: each term is matched
// independently and results are appended in term-then-row order, skipping
// rows already present. Catalog failures yield an empty result, never an
// error.
func (m *Matcher) Find(query string) []repository.Entry {
	entries, err := m.source.Entries()
	if err != nil {
		if m.log != nil {
			m.log.CatalogError("find", err)
		}
		return nil
	}

	terms := searchTerms(query)
	if len(terms) == 0 || len(entries) == 0 {
		return nil
	}

	var results []repository.Entry
	for _, entry := range entries {
		if containsAllTerms(strings.ToLower(entry.Description), terms) {
			results = append(results, entry)
		}
	}

	if len(results) == 0 && len(terms) > 1 {
		results = m.partialMatch(entries, terms)
	}

	return results
}

func containsAllTerms(description string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(description, term) {
			return false
		}
	}
	return true
}

func (m *Matcher) partialMatch(entries []repository.Entry, terms []string) []repository.Entry {
	var results []repository.Entry
	seen := make(map[string]bool)
	for _, term := range terms {
		for _, entry := range entries {
			if !strings.Contains(strings.ToLower(entry.Description), term) {
				continue
			}
			if seen[entry.Description] {
				continue
			}
			seen[entry.Description] = true
			results = append(results, entry)
		}
	}
	return results
}

// ExplainMiss analyzes why a query produced no results and suggests
// alternatives: similar product names first, then the individual terms
// that do occur somewhere in the catalog, then a spelling hint.
func (m *Matcher) ExplainMiss(query string) string {
	entries, err := m.source.Entries()
	if err != nil {
		return "Arquivo de produtos não encontrado"
	}

	terms := searchTerms(query)

	var suggestions []string
	for _, entry := range entries {
		lower := strings.ToLower(entry.Description)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				suggestions = append(suggestions, entry.Description)
				break
			}
		}
		if len(suggestions) == 5 {
			break
		}
	}
	if len(suggestions) > 0 {
		return "Produtos similares encontrados: " + strings.Join(suggestions, ", ")
	}

	var keywords []string
	for _, term := range terms {
		for _, entry := range entries {
			if strings.Contains(strings.ToLower(entry.Description), term) {
				keywords = append(keywords, term)
				break
			}
		}
		if len(keywords) == 3 {
			break
		}
	}
	if len(keywords) > 0 {
		return "Tente pesquisar por: " + strings.Join(keywords, " ou ")
	}

	return "Nenhum produto similar encontrado. Verifique a ortografia."
}
