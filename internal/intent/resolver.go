package intent

import (
	"context"
	"encoding/json"
	"strings"

	catalogsvc "orcamento_backend/internal/catalog/service"
	"orcamento_backend/platform/logger"
)

// Kind tags the resolved intent of a message.
type Kind string

const (
	// KindMakeQuote is a request to quote a product.
	KindMakeQuote Kind = "fazer_orcamento"
	// KindProvideDimension is the answer to a pending dimension request.
	KindProvideDimension Kind = "fornecer_dimensao"
)

// Intent is the structured interpretation of one chat message.
type Intent struct {
	Kind      Kind
	Product   string
	Quantity  int
	Dimension string
}

// CompletionClient is the narrow contract with the text-understanding
// service: one system+user exchange, raw text back, or an error. Any
// error counts as "service unavailable" and triggers local fallback.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int) (string, error)
}

// Resolver orchestrates the text-understanding service with strict
// decode-or-fallback semantics. Every failure mode degrades to the
// deterministic local extractor; nothing raises past this boundary.
type Resolver struct {
	ai        CompletionClient // nil when the service is not configured
	source    catalogsvc.Source
	matcher   *catalogsvc.Matcher
	extractor *Extractor
	log       *logger.Logger
}

// NewResolver creates a resolver. ai may be nil; the resolver then
// always uses local extraction.
func NewResolver(ai CompletionClient, source catalogsvc.Source, matcher *catalogsvc.Matcher, extractor *Extractor, log *logger.Logger) *Resolver {
	return &Resolver{ai: ai, source: source, matcher: matcher, extractor: extractor, log: log}
}

// ResolveIntent interprets a single-item message. When the session is
// awaiting a dimension, the message itself is the dimension and the
// service is not consulted.
func (r *Resolver) ResolveIntent(ctx context.Context, message string, awaitingDimension bool) Intent {
	if awaitingDimension {
		return Intent{Kind: KindProvideDimension, Dimension: message}
	}

	descriptions, ok := r.candidateDescriptions("single-item resolve")
	if !ok || r.ai == nil {
		return r.localIntent(message)
	}

	reply, err := r.ai.Complete(ctx, buildSingleItemPrompt(descriptions), message, singleItemMaxTokens)
	if err != nil {
		r.fallback("service call failed", err)
		return r.localIntent(message)
	}

	intent, ok := parseSingleItemReply(reply)
	if !ok {
		r.fallback("unparseable single-item reply", nil)
		return r.localIntent(message)
	}
	return intent
}

// localIntent is the deterministic no-service path: the whole message is
// the product query and the quantity comes from local extraction.
func (r *Resolver) localIntent(message string) Intent {
	return Intent{
		Kind:     KindMakeQuote,
		Product:  message,
		Quantity: ExtractQuantity(message),
	}
}

// ResolveMultiItem interprets a message naming several products. The
// service path resolves each returned name against the catalog; any
// failure or empty result falls back entirely to the local extractor.
func (r *Resolver) ResolveMultiItem(ctx context.Context, message string) []Item {
	descriptions, ok := r.candidateDescriptions("multi-item resolve")
	if !ok || r.ai == nil {
		return r.extractor.ExtractItems(message)
	}

	reply, err := r.ai.Complete(ctx, buildMultiItemPrompt(descriptions), message, multiItemMaxTokens)
	if err != nil {
		r.fallback("service call failed", err)
		return r.extractor.ExtractItems(message)
	}

	proposals, ok := parseMultiItemReply(reply)
	if !ok || len(proposals) == 0 {
		r.fallback("unparseable multi-item reply", nil)
		return r.extractor.ExtractItems(message)
	}

	var items []Item
	for _, proposal := range proposals {
		matches := r.matcher.Find(proposal.Name)
		if len(matches) == 0 {
			if r.log != nil {
				r.log.Debug("service proposal has no catalog match", "name", proposal.Name)
			}
			continue
		}
		product := matches[0]
		items = append(items, Item{
			Name:       product.Description,
			Quantity:   proposal.Quantity,
			Price:      product.Price,
			Dimensions: product.Dimension,
		})
	}

	if len(items) == 0 {
		return r.extractor.ExtractItems(message)
	}
	return items
}

// candidateDescriptions loads the catalog descriptions for prompting.
// An unloadable catalog disables the service path.
func (r *Resolver) candidateDescriptions(op string) ([]string, bool) {
	entries, err := r.source.Entries()
	if err != nil {
		r.fallback(op+": catalog unavailable", err)
		return nil, false
	}
	if len(entries) == 0 {
		return nil, false
	}

	descriptions := make([]string, 0, len(entries))
	for _, entry := range entries {
		descriptions = append(descriptions, entry.Description)
	}
	return descriptions, true
}

func (r *Resolver) fallback(reason string, err error) {
	if r.log != nil {
		r.log.AIFallback(reason, err)
	}
}

// Reply decoding. The full expected shape is validated before any field
// is accepted; partial trust in a decoded structure is never allowed.

type singleItemReply struct {
	Intent     string          `json:"intent"`
	Produto    string          `json:"produto"`
	Quantidade json.RawMessage `json:"quantidade"`
}

func parseSingleItemReply(reply string) (Intent, bool) {
	block, ok := firstBraceBlock(reply)
	if !ok {
		return Intent{}, false
	}

	var decoded singleItemReply
	if err := json.Unmarshal([]byte(block), &decoded); err != nil {
		return Intent{}, false
	}
	if strings.TrimSpace(decoded.Produto) == "" {
		return Intent{}, false
	}

	quantity, ok := coerceQuantity(decoded.Quantidade)
	if !ok {
		return Intent{}, false
	}

	return Intent{
		Kind:     KindMakeQuote,
		Product:  strings.TrimSpace(decoded.Produto),
		Quantity: quantity,
	}, true
}

type multiItemReply struct {
	Products []struct {
		Name     string          `json:"name"`
		Quantity json.RawMessage `json:"quantity"`
	} `json:"products"`
}

type itemProposal struct {
	Name     string
	Quantity int
}

func parseMultiItemReply(reply string) ([]itemProposal, bool) {
	block, ok := firstBraceBlock(reply)
	if !ok {
		return nil, false
	}

	var decoded multiItemReply
	if err := json.Unmarshal([]byte(block), &decoded); err != nil {
		return nil, false
	}

	proposals := make([]itemProposal, 0, len(decoded.Products))
	for _, p := range decoded.Products {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		quantity, ok := coerceQuantity(p.Quantity)
		if !ok {
			quantity = 1
		}
		proposals = append(proposals, itemProposal{Name: name, Quantity: quantity})
	}
	return proposals, true
}

// coerceQuantity accepts a JSON number or a string carrying a leading
// digit run ("5 unidades"). Absent quantities default to 1; anything
// parsed below 1 is floored to 1.
func coerceQuantity(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 1, true
	}

	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		if number < 1 {
			return 1, true
		}
		return int(number), true
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		digits := leadingDigitsRegex.FindString(strings.TrimSpace(text))
		if digits == "" {
			digits = digitsRegex.FindString(text)
		}
		if digits == "" {
			return 0, false
		}
		return parseInt(digits, 1), true
	}

	return 0, false
}
