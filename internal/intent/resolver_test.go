package intent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	catalogsvc "orcamento_backend/internal/catalog/service"
	"orcamento_backend/platform/logger"
)

type fakeAI struct {
	reply string
	err   error
	calls int
}

func (f *fakeAI) Complete(_ context.Context, _, _ string, _ int) (string, error) {
	f.calls++
	return f.reply, f.err
}

func newResolver(ai CompletionClient) *Resolver {
	log := logger.New("development")
	source := stubSource{entries: catalogEntries()}
	matcher := catalogsvc.NewMatcher(source, log)
	return NewResolver(ai, source, matcher, NewExtractor(matcher, log), log)
}

func TestResolveIntentAwaitingDimension(t *testing.T) {
	ai := &fakeAI{}
	r := newResolver(ai)

	it := r.ResolveIntent(context.Background(), "30x20mm", true)
	if it.Kind != KindProvideDimension || it.Dimension != "30x20mm" {
		t.Fatalf("intent = %+v", it)
	}
	if ai.calls != 0 {
		t.Error("service must not be consulted for a dimension answer")
	}
}

func TestResolveIntentWithoutService(t *testing.T) {
	r := newResolver(nil)

	it := r.ResolveIntent(context.Background(), "preciso de 10 dobradiças", false)
	if it.Kind != KindMakeQuote {
		t.Fatalf("kind = %q", it.Kind)
	}
	if it.Product != "preciso de 10 dobradiças" {
		t.Errorf("product = %q, want the raw message", it.Product)
	}
	if it.Quantity != 10 {
		t.Errorf("quantity = %d, want 10", it.Quantity)
	}
}

func TestResolveIntentFallbackIsDeterministic(t *testing.T) {
	r := newResolver(nil)

	first := r.ResolveIntent(context.Background(), "preciso de 10 dobradiças", false)
	for i := 0; i < 5; i++ {
		got := r.ResolveIntent(context.Background(), "preciso de 10 dobradiças", false)
		if got != first {
			t.Fatalf("run %d: %+v differs from %+v", i, got, first)
		}
	}
}

func TestResolveIntentUsesServiceReply(t *testing.T) {
	ai := &fakeAI{reply: `A resposta é {"intent": "fazer_orcamento", "produto": "Dobradiça Curva", "quantidade": 3} conforme pedido.`}
	r := newResolver(ai)

	it := r.ResolveIntent(context.Background(), "quero 3 dobradiças curvas", false)
	if it.Product != "Dobradiça Curva" || it.Quantity != 3 {
		t.Fatalf("intent = %+v", it)
	}
}

func TestResolveIntentServiceErrorFallsBack(t *testing.T) {
	ai := &fakeAI{err: errors.New("timeout")}
	r := newResolver(ai)

	it := r.ResolveIntent(context.Background(), "quero 2 parafusos", false)
	if it.Kind != KindMakeQuote || it.Product != "quero 2 parafusos" || it.Quantity != 2 {
		t.Fatalf("fallback intent = %+v", it)
	}
}

func TestResolveIntentGarbageReplyFallsBack(t *testing.T) {
	for _, reply := range []string{
		"no json here",
		`{"intent": "fazer_orcamento"}`,
		`{"produto": "", "quantidade": 2}`,
		`{"produto": "Dobradiça", "quantidade": "sem número"}`,
		`{"produto": "Dobradiça", "quantidade": 2`,
	} {
		ai := &fakeAI{reply: reply}
		r := newResolver(ai)

		it := r.ResolveIntent(context.Background(), "quero 2 parafusos", false)
		if it.Product != "quero 2 parafusos" {
			t.Errorf("reply %q: expected fallback, got %+v", reply, it)
		}
	}
}

func TestResolveMultiItemServicePath(t *testing.T) {
	ai := &fakeAI{reply: `{"products": [{"name": "dobradiça curva", "quantity": 5}, {"name": "parafuso phillips", "quantity": 2}]}`}
	r := newResolver(ai)

	items := r.ResolveMultiItem(context.Background(), "irrelevant")
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %v", len(items), items)
	}
	if items[0].Name != "Dobradiça Curva" || items[0].Quantity != 5 {
		t.Errorf("first item = %+v", items[0])
	}
	if items[0].Price != 12.50 {
		t.Errorf("price must come from the catalog, got %v", items[0].Price)
	}
}

func TestResolveMultiItemUnmatchedProposalsFallBack(t *testing.T) {
	ai := &fakeAI{reply: `{"products": [{"name": "martelo", "quantity": 5}]}`}
	r := newResolver(ai)

	items := r.ResolveMultiItem(context.Background(), "3 parafuso phillips")
	if len(items) != 1 || items[0].Name != "Parafuso Phillips" {
		t.Fatalf("expected local extraction result, got %v", items)
	}
}

func TestResolveMultiItemWithoutService(t *testing.T) {
	r := newResolver(nil)

	items := r.ResolveMultiItem(context.Background(), "5 dobradiça curva e 3 parafuso phillips")
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %v", len(items), items)
	}
}

func TestFirstBraceBlock(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{`{"a": 1}`, `{"a": 1}`, true},
		{`prefix {"a": {"b": 2}} suffix`, `{"a": {"b": 2}}`, true},
		{`{"s": "tem } dentro"}`, `{"s": "tem } dentro"}`, true},
		{`{"s": "escapado \" }"} x`, `{"s": "escapado \" }"}`, true},
		{`sem chaves`, "", false},
		{`{"aberto": 1`, "", false},
	}

	for _, tt := range tests {
		got, ok := firstBraceBlock(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("firstBraceBlock(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCoerceQuantity(t *testing.T) {
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{``, 1, true},
		{`5`, 5, true},
		{`0`, 1, true},
		{`-3`, 1, true},
		{`2.9`, 2, true},
		{`"7"`, 7, true},
		{`"5 unidades"`, 5, true},
		{`"unas 4"`, 4, true},
		{`"sem número"`, 0, false},
		{`[1]`, 0, false},
	}

	for _, tt := range tests {
		got, ok := coerceQuantity(json.RawMessage(tt.raw))
		if ok != tt.ok || got != tt.want {
			t.Errorf("coerceQuantity(%q) = (%d, %v), want (%d, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}
