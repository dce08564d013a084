package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"orcamento_backend/internal/catalog/repository"
	catalogsvc "orcamento_backend/internal/catalog/service"
	"orcamento_backend/internal/chat/service"
	"orcamento_backend/internal/chat/session"
	"orcamento_backend/internal/chat/transport"
	"orcamento_backend/internal/intent"
	"orcamento_backend/internal/pdf"
	"orcamento_backend/internal/quote"
	"orcamento_backend/platform/logger"
	"orcamento_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type stubSource struct{}

func (stubSource) Entries() ([]repository.Entry, error) {
	return []repository.Entry{
		{Description: "Corrediças Telescópicas 45cm", Dimension: "45cm", Price: 45.00, HasPrice: true},
		{Description: "Dobradiça Curva", Price: 12.50, HasPrice: true},
	}, nil
}

type stubRenderer struct{}

func (stubRenderer) Render(q quote.Quote, clientName string) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *pdf.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New("development")
	matcher := catalogsvc.NewMatcher(stubSource{}, log)
	extractor := intent.NewExtractor(matcher, log)
	resolver := intent.NewResolver(nil, stubSource{}, matcher, extractor, log)
	sessions := session.NewStore(100, time.Minute)
	docs := pdf.NewStore()

	svc := service.NewService(sessions, resolver, matcher, stubRenderer{}, docs, nil, log)
	h := New(svc, docs, validator.New())

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine, docs
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := postJSON(t, engine, "/api/v1/chat", transport.ChatRequest{SessionID: "s1"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestChatRejectsInvalidMode(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := postJSON(t, engine, "/api/v1/chat", transport.ChatRequest{Message: "dobradiça", Mode: "batch"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestChatHappyPath(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := postJSON(t, engine, "/api/v1/chat", transport.ChatRequest{
		Message:   "quero 2 corrediças",
		SessionID: "s1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp transport.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.SessionID != "s1" {
		t.Errorf("session id = %q", resp.SessionID)
	}
	if resp.PDFURL == nil || *resp.PDFURL != "/api/v1/download/pdf/s1" {
		t.Errorf("pdf url = %v", resp.PDFURL)
	}
}

func TestChatDefaultsSessionID(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := postJSON(t, engine, "/api/v1/chat", transport.ChatRequest{Message: "dobradiça curva"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp transport.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.SessionID != "default" {
		t.Errorf("session id = %q, want the shared default", resp.SessionID)
	}
}

func TestChatMultiModeWithProducts(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := postJSON(t, engine, "/api/v1/chat", transport.ChatRequest{
		Message:   service.MultiQuoteTrigger,
		SessionID: "s1",
		Mode:      "multiple",
		Products: []transport.ProductItem{
			{Name: "Dobradiça Curva", Quantity: 4, Price: 12.50},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp transport.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.PDFURL == nil {
		t.Error("expected a pdf url")
	}
}

func TestExtractProducts(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := postJSON(t, engine, "/api/v1/extract-products", transport.ExtractRequest{
		Message: "2 dobradiça curva",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp transport.ExtractResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Products) != 1 || resp.Products[0].Name != "Dobradiça Curva" || resp.Products[0].Quantity != 2 {
		t.Fatalf("products = %+v", resp.Products)
	}
}

func TestExtractProductsRequiresMessage(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := postJSON(t, engine, "/api/v1/extract-products", transport.ExtractRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDownloadPDF(t *testing.T) {
	engine, docs := newTestRouter(t)
	docs.Put("s1", []byte("%PDF-1.4 stub"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/download/pdf/s1", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd == "" {
		t.Error("missing content disposition")
	}
}

func TestDownloadPDFNotFound(t *testing.T) {
	engine, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/download/pdf/missing", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
