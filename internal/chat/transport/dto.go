// Package transport defines the request and response DTOs for the chat
// endpoints.
package transport

// ProductItem is one pre-resolved line item sent by the client on the
// multi-item finalize path, and also the shape of extraction results.
type ProductItem struct {
	Name       string  `json:"name" validate:"required"`
	Quantity   int     `json:"quantity" validate:"min=0"`
	Price      float64 `json:"price"`
	Dimensions string  `json:"dimensions,omitempty"`
}

// ChatRequest is the body of POST /chat. Message may be empty only when
// the client submits pre-resolved products in multiple mode.
type ChatRequest struct {
	Message   string        `json:"message"`
	SessionID string        `json:"session_id"`
	Mode      string        `json:"mode" validate:"omitempty,oneof=single multiple"`
	Products  []ProductItem `json:"products" validate:"dive"`
}

// ChatResponse is the reply for one conversation turn.
type ChatResponse struct {
	Response  string  `json:"response"`
	PDFURL    *string `json:"pdf_url"`
	SessionID string  `json:"session_id"`
}

// ExtractRequest is the body of POST /extract-products.
type ExtractRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionID string `json:"session_id"`
}

// ExtractResponse lists the items recognized in the message.
type ExtractResponse struct {
	Products []ProductItem `json:"products"`
}
