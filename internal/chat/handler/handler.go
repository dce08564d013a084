// Package handler exposes the conversational quoting endpoints.
package handler

import (
	"fmt"
	"net/http"

	"orcamento_backend/internal/chat/service"
	"orcamento_backend/internal/chat/transport"
	"orcamento_backend/internal/intent"
	"orcamento_backend/internal/pdf"
	"orcamento_backend/platform/apperr"
	"orcamento_backend/platform/httpkit"
	"orcamento_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgEmptyMessage     = "Mensagem não pode ser vazia."
	msgPDFNotFound      = "PDF não encontrado"
)

// Handler handles the chat, extraction and download routes.
type Handler struct {
	svc  *service.Service
	docs *pdf.Store
	val  *validator.Validator
}

func New(svc *service.Service, docs *pdf.Store, val *validator.Validator) *Handler {
	return &Handler{svc: svc, docs: docs, val: val}
}

// RegisterRoutes mounts the chat routes on the v1 group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chat", h.Chat)
	rg.POST("/extract-products", h.ExtractProducts)
	rg.GET("/download/pdf/:sessionID", h.DownloadPDF)
}

// Chat processes one conversation turn.
func (h *Handler) Chat(c *gin.Context) {
	var req transport.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	if req.Message == "" && len(req.Products) == 0 {
		httpkit.Error(c, http.StatusBadRequest, msgEmptyMessage, nil)
		return
	}

	// Session ids are caller-supplied; absent ids share one bucket, as a
	// client that never sends an id has a single conversation anyway.
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = "default"
	}
	mode := req.Mode
	if mode == "" {
		mode = "single"
	}

	reply := h.svc.HandleMessage(c.Request.Context(), sessionID, req.Message, mode, toItems(req.Products))
	httpkit.OK(c, transport.ChatResponse{
		Response:  reply.Text,
		PDFURL:    reply.PDFURL,
		SessionID: sessionID,
	})
}

// ExtractProducts previews the multi-item extraction without touching
// conversation state.
func (h *Handler) ExtractProducts(c *gin.Context) {
	var req transport.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	items := h.svc.ExtractOnly(c.Request.Context(), req.Message)
	products := make([]transport.ProductItem, 0, len(items))
	for _, it := range items {
		products = append(products, transport.ProductItem{
			Name:       it.Name,
			Quantity:   it.Quantity,
			Price:      it.Price,
			Dimensions: it.Dimensions,
		})
	}
	httpkit.OK(c, transport.ExtractResponse{Products: products})
}

// DownloadPDF serves the latest rendered quote document for a session.
func (h *Handler) DownloadPDF(c *gin.Context) {
	sessionID := c.Param("sessionID")
	doc, ok := h.docs.Get(sessionID)
	if !ok {
		httpkit.HandleError(c, apperr.NotFound(msgPDFNotFound).WithOp("chat.DownloadPDF"))
		return
	}

	filename := fmt.Sprintf("orcamento_%s.pdf", sessionID)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

func toItems(products []transport.ProductItem) []intent.Item {
	if len(products) == 0 {
		return nil
	}
	items := make([]intent.Item, 0, len(products))
	for _, p := range products {
		items = append(items, intent.Item{
			Name:       p.Name,
			Quantity:   p.Quantity,
			Price:      p.Price,
			Dimensions: p.Dimensions,
		})
	}
	return items
}
