// Package events defines the domain events emitted by the quoting flow.
package events

import "orcamento_backend/platform/events"

const QuoteFinalizedEvent = "quote.finalized"

// QuoteFinalized is published when a conversation reaches a finished
// quote, whether or not the PDF rendering succeeded.
type QuoteFinalized struct {
	events.BaseEvent
	SessionID  string  `json:"session_id"`
	ItemCount  int     `json:"item_count"`
	GrandTotal float64 `json:"grand_total"`
	HasPDF     bool    `json:"has_pdf"`
}

func (e QuoteFinalized) EventName() string { return QuoteFinalizedEvent }

func NewQuoteFinalized(sessionID string, itemCount int, grandTotal float64, hasPDF bool) QuoteFinalized {
	return QuoteFinalized{
		BaseEvent:  events.NewBaseEvent(),
		SessionID:  sessionID,
		ItemCount:  itemCount,
		GrandTotal: grandTotal,
		HasPDF:     hasPDF,
	}
}
