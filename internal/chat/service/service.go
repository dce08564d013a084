// Package service implements the conversation state machine that drives
// the quoting dialogue: each session walks through product search,
// disambiguation, dimension collection and quote finalization.
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	catalogsvc "orcamento_backend/internal/catalog/service"
	"orcamento_backend/internal/chat/session"
	chatevents "orcamento_backend/internal/events"
	"orcamento_backend/internal/intent"
	"orcamento_backend/internal/quote"
	"orcamento_backend/platform/events"
	"orcamento_backend/platform/logger"
)

// MultiQuoteTrigger is the sentinel message the client sends together
// with pre-resolved products to finalize a multi-item quote.
const MultiQuoteTrigger = "generate_multiple_quote"

// Renderer turns a composed quote into a downloadable document.
type Renderer interface {
	Render(q quote.Quote, clientName string) ([]byte, error)
}

// Reply is the outcome of one conversation turn.
type Reply struct {
	Text   string
	PDFURL *string
}

// DocumentStore keeps rendered documents addressable by session id.
type DocumentStore interface {
	Put(sessionID string, doc []byte)
}

// Service is the conversation engine. All state transitions for a
// session happen under that session's lock, so concurrent messages on
// the same session serialize and never observe half-applied turns.
type Service struct {
	sessions *session.Store
	resolver *intent.Resolver
	matcher  *catalogsvc.Matcher
	renderer Renderer
	docs     DocumentStore
	bus      events.Bus
	log      *logger.Logger
}

func NewService(
	sessions *session.Store,
	resolver *intent.Resolver,
	matcher *catalogsvc.Matcher,
	renderer Renderer,
	docs DocumentStore,
	bus events.Bus,
	log *logger.Logger,
) *Service {
	return &Service{
		sessions: sessions,
		resolver: resolver,
		matcher:  matcher,
		renderer: renderer,
		docs:     docs,
		bus:      bus,
		log:      log,
	}
}

// HandleMessage processes one chat turn for the given session. It never
// returns an error: every internal failure degrades to a user-facing
// message, and document rendering failures only drop the PDF link.
func (s *Service) HandleMessage(ctx context.Context, sessionID, message, mode string, products []intent.Item) Reply {
	sess := s.sessions.Get(sessionID)
	sess.Lock()
	defer sess.Unlock()

	if mode == "multiple" && message == MultiQuoteTrigger && len(products) > 0 {
		return s.finalizeMulti(ctx, sessionID, sess, products)
	}

	switch sess.State {
	case session.StateAwaitingSelection:
		return s.handleSelection(ctx, sessionID, sess, message)
	case session.StateAwaitingDimension:
		return s.handleDimension(ctx, sessionID, sess, message)
	default:
		return s.handleRequest(ctx, sessionID, sess, message)
	}
}

// ExtractOnly runs the multi-item extraction without touching any
// session state. It backs the quote-preview endpoint.
func (s *Service) ExtractOnly(ctx context.Context, message string) []intent.Item {
	return s.resolver.ResolveMultiItem(ctx, message)
}

// handleRequest starts a fresh quoting attempt from a free-text message.
func (s *Service) handleRequest(ctx context.Context, sessionID string, sess *session.Session, message string) Reply {
	it := s.resolver.ResolveIntent(ctx, message, false)
	if it.Kind != intent.KindMakeQuote {
		return Reply{Text: "Desculpe, não entendi. Você pode informar o nome do produto que deseja orçar?"}
	}

	sess.Reset()
	sess.Quantity = it.Quantity
	if sess.Quantity < 1 {
		sess.Quantity = 1
	}

	candidates := s.matcher.Find(it.Product)
	switch len(candidates) {
	case 0:
		// State stays START so the next message is a fresh attempt.
		return Reply{Text: s.notFoundReply(it.Product)}
	case 1:
		sess.Selected = &candidates[0]
		sess.State = session.StateProductSelected
		return s.afterSelection(ctx, sessionID, sess, "Produto encontrado")
	default:
		sess.Candidates = candidates
		sess.State = session.StateAwaitingSelection
		return Reply{Text: quote.FormatOptions(candidates)}
	}
}

// handleSelection resolves a pending multi-candidate choice. Anything
// that is not a valid 1-based index re-prompts without changing state.
func (s *Service) handleSelection(ctx context.Context, sessionID string, sess *session.Session, message string) Reply {
	idx, err := strconv.Atoi(strings.TrimSpace(message))
	if err != nil || idx < 1 || idx > len(sess.Candidates) {
		return Reply{Text: "*Opção inválida.* Por favor, digite um número da lista de opções."}
	}

	selected := sess.Candidates[idx-1]
	sess.Selected = &selected
	sess.Candidates = nil
	sess.State = session.StateProductSelected
	return s.afterSelection(ctx, sessionID, sess, "Produto selecionado")
}

// handleDimension stores the message verbatim as the dimension and
// finalizes the quote.
func (s *Service) handleDimension(ctx context.Context, sessionID string, sess *session.Session, message string) Reply {
	sess.Selected.Dimension = message
	return s.finalizeSingle(ctx, sessionID, sess)
}

// afterSelection decides whether the selected product still needs a
// dimension or the quote can be finalized right away.
func (s *Service) afterSelection(ctx context.Context, sessionID string, sess *session.Session, label string) Reply {
	if sess.Selected.Dimension == "" {
		sess.State = session.StateAwaitingDimension
		text := fmt.Sprintf("*%s:* %s\n\n*Por favor, informe as dimensões desejadas:*", label, sess.Selected.Description)
		return Reply{Text: text}
	}
	return s.finalizeSingle(ctx, sessionID, sess)
}

func (s *Service) finalizeSingle(ctx context.Context, sessionID string, sess *session.Session) Reply {
	sess.State = session.StateFinalized

	q := quote.Compose([]quote.Selection{{Product: *sess.Selected, Quantity: sess.Quantity}})
	reply := Reply{Text: quote.FormatSingle(q)}
	reply.PDFURL = s.renderDocument(ctx, sessionID, q)
	s.publishFinalized(ctx, sessionID, q, reply.PDFURL != nil)
	return reply
}

func (s *Service) finalizeMulti(ctx context.Context, sessionID string, sess *session.Session, products []intent.Item) Reply {
	sess.Reset()
	sess.State = session.StateFinalized

	selections := make([]quote.Selection, 0, len(products))
	for _, p := range products {
		sel := quote.Selection{Quantity: p.Quantity}
		sel.Product.Description = p.Name
		sel.Product.Dimension = p.Dimensions
		sel.Product.Price = p.Price
		sel.Product.HasPrice = true
		selections = append(selections, sel)
	}

	q := quote.Compose(selections)
	reply := Reply{Text: quote.FormatMulti(q)}
	reply.PDFURL = s.renderDocument(ctx, sessionID, q)
	s.publishFinalized(ctx, sessionID, q, reply.PDFURL != nil)
	return reply
}

// renderDocument renders and stores the quote PDF. Failures are logged
// and reported as a missing link; they never affect the conversation.
func (s *Service) renderDocument(_ context.Context, sessionID string, q quote.Quote) *string {
	doc, err := s.renderer.Render(q, "Cliente "+sessionID)
	if err != nil {
		s.log.Error("quote document rendering failed", "session_id", sessionID, "error", err)
		return nil
	}
	s.docs.Put(sessionID, doc)
	url := "/api/v1/download/pdf/" + sessionID
	return &url
}

func (s *Service) publishFinalized(ctx context.Context, sessionID string, q quote.Quote, hasPDF bool) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, chatevents.NewQuoteFinalized(sessionID, len(q.Lines), q.GrandTotal, hasPDF))
}

// notFoundReply builds the miss message, enriched with hints about why
// the search found nothing.
func (s *Service) notFoundReply(product string) string {
	var b strings.Builder
	b.WriteString("*Produto não encontrado*\n\n")
	fmt.Fprintf(&b, "Não consegui encontrar \"%s\" no meu arquivo de preços.", product)
	if hint := s.matcher.ExplainMiss(product); hint != "" {
		b.WriteString("\n\n")
		b.WriteString(hint)
	}
	return b.String()
}
