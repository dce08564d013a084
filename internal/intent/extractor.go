// Package intent turns free-text chat messages into resolved purchase
// intents: which catalog products, in which quantities. Extraction is
// fully local and deterministic; the resolver layers an optional
// text-understanding service on top with fallback to this extractor.
package intent

import (
	"regexp"
	"strings"

	catalogsvc "orcamento_backend/internal/catalog/service"
	"orcamento_backend/platform/logger"
)

// Item is one extracted line item, already resolved against the catalog.
type Item struct {
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
	Dimensions string  `json:"dimensions,omitempty"`
}

// Extractor splits a message into item clauses and resolves each one.
type Extractor struct {
	matcher *catalogsvc.Matcher
	log     *logger.Logger
}

// NewExtractor creates an extractor over the given matcher.
func NewExtractor(matcher *catalogsvc.Matcher, log *logger.Logger) *Extractor {
	return &Extractor{matcher: matcher, log: log}
}

// Clause separators, applied in order. Every separator re-scans the
// clauses produced by the previous ones.
var clauseSeparators = []*regexp.Regexp{
	regexp.MustCompile(`,\s*`),
	regexp.MustCompile(`(?i)\s+e\s+`),
	regexp.MustCompile(`(?i)\s+e mais\s+`),
	regexp.MustCompile(`(?i)\s+também\s+`),
	regexp.MustCompile(`(?i)\s+além de\s+`),
}

// Quantity/phrase patterns, tried in order; first match wins. Whichever
// captured group is purely digits is the quantity.
var clausePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d+)\s+(.+)$`),
	regexp.MustCompile(`^(.+?)\s+(\d+)$`),
	regexp.MustCompile(`(?i)^(?:quero|preciso|gostaria|precisaria)\s+(\d+)\s+(.+)$`),
	regexp.MustCompile(`(?i)^(?:quero|preciso|gostaria|precisaria)\s+(.+?)\s+(\d+)$`),
}

var (
	stopWordsRegex     = regexp.MustCompile(`(?i)\b(quero|preciso|gostaria|precisaria|de|das|dos|unidades|pcs|peças|itens|unidade|pc|peça|item)\b`)
	edgeDigitsRegex    = regexp.MustCompile(`^\d+\s+|\s+\d+$`)
	digitsRegex        = regexp.MustCompile(`\b(\d+)\b`)
	onlyDigitsRegex    = regexp.MustCompile(`^\d+$`)
	quantityUnitRegex  = regexp.MustCompile(`(?i)(\d+)\s+(?:unidades?|pcs?|peças?|itens?)`)
	quantityVerbRegex  = regexp.MustCompile(`(?i)(?:quero|preciso|gostaria|precisaria)\s+(\d+)`)
	leadingDigitsRegex = regexp.MustCompile(`^\d+`)
)

// Portuguese number words up to twenty, for messages like
// "preciso de cinco dobradiças".
var numberWords = map[string]int{
	"zero": 0, "um": 1, "uma": 1, "dois": 2, "duas": 2, "três": 3, "tres": 3,
	"quatro": 4, "cinco": 5, "seis": 6, "sete": 7, "oito": 8, "nove": 9, "dez": 10,
	"onze": 11, "doze": 12, "treze": 13, "quatorze": 14, "catorze": 14, "quinze": 15,
	"dezesseis": 16, "dezessete": 17, "dezoito": 18, "dezenove": 19, "vinte": 20,
}

// splitClauses breaks the message into candidate item clauses.
func splitClauses(message string) []string {
	clauses := []string{message}
	for _, sep := range clauseSeparators {
		var next []string
		for _, clause := range clauses {
			for _, part := range sep.Split(clause, -1) {
				if trimmed := strings.TrimSpace(part); trimmed != "" {
					next = append(next, trimmed)
				}
			}
		}
		clauses = next
	}
	return clauses
}

// parseClause extracts the quantity and raw phrase from one clause.
// Clauses with no recognizable pattern are a phrase with quantity 1.
func parseClause(clause string) (phrase string, quantity int) {
	quantity = 1
	phrase = clause

	for _, pattern := range clausePatterns {
		match := pattern.FindStringSubmatch(clause)
		if match == nil {
			continue
		}
		if onlyDigitsRegex.MatchString(match[1]) {
			quantity = parseInt(match[1], 1)
			phrase = strings.TrimSpace(match[2])
		} else {
			phrase = strings.TrimSpace(match[1])
			quantity = parseInt(match[2], 1)
		}
		return phrase, quantity
	}
	return phrase, quantity
}

// cleanPhrase strips action verbs, partitive articles, unit nouns and
// leftover edge digits. An empty result means the clause carried no
// product at all.
func cleanPhrase(phrase string) string {
	cleaned := stopWordsRegex.ReplaceAllString(phrase, "")
	cleaned = edgeDigitsRegex.ReplaceAllString(strings.TrimSpace(cleaned), "")
	return strings.TrimSpace(cleaned)
}

// ExtractItems resolves every item clause in the message against the
// catalog. Phrases resolving to an already-extracted product merge by
// summing quantities; phrases with no catalog match are dropped. Never
// fails: the result is whatever subset could be resolved.
func (e *Extractor) ExtractItems(message string) []Item {
	var items []Item

	for _, clause := range splitClauses(message) {
		phrase, quantity := parseClause(clause)
		if quantity < 1 {
			quantity = 1
		}

		cleaned := cleanPhrase(phrase)
		if cleaned == "" {
			continue
		}

		matches := e.matcher.Find(cleaned)
		if len(matches) == 0 {
			if e.log != nil {
				e.log.Debug("no catalog match for phrase", "phrase", cleaned)
			}
			continue
		}

		product := matches[0]
		if merged := mergeItem(items, product.Description, quantity); merged {
			continue
		}

		items = append(items, Item{
			Name:       product.Description,
			Quantity:   quantity,
			Price:      product.Price,
			Dimensions: product.Dimension,
		})
	}

	return items
}

func mergeItem(items []Item, description string, quantity int) bool {
	for i := range items {
		if strings.EqualFold(items[i].Name, description) {
			items[i].Quantity += quantity
			return true
		}
	}
	return false
}

// ExtractQuantity pulls a single quantity out of a message: explicit
// digits first, then spelled-out Portuguese numbers, then
// keyword-anchored patterns. Non-positive results are coerced to 1.
func ExtractQuantity(message string) int {
	if match := digitsRegex.FindStringSubmatch(message); match != nil {
		return parseInt(match[1], 1)
	}

	lower := strings.ToLower(message)
	for _, field := range strings.Fields(lower) {
		word := strings.Trim(field, ".,;:!?")
		if number, ok := numberWords[word]; ok {
			if number < 1 {
				return 1
			}
			return number
		}
	}

	for _, pattern := range []*regexp.Regexp{quantityUnitRegex, quantityVerbRegex} {
		if match := pattern.FindStringSubmatch(lower); match != nil {
			return parseInt(match[1], 1)
		}
	}

	return 1
}

// parseInt parses a digit string, falling back (and flooring) to min.
func parseInt(raw string, min int) int {
	n := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			return min
		}
		n = n*10 + int(r-'0')
		if n > 1_000_000 {
			return 1_000_000
		}
	}
	if n < min {
		return min
	}
	return n
}
