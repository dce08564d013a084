package intent

import "strings"

// Bounded candidate-list sizes keep the prompt payload small; the
// service only needs enough of the catalog to anchor name extraction.
const (
	singleItemCandidateLimit = 20
	multiItemCandidateLimit  = 30

	singleItemMaxTokens = 100
	multiItemMaxTokens  = 400
)

// buildSingleItemPrompt asks for one product and quantity as bare JSON.
func buildSingleItemPrompt(descriptions []string) string {
	var b strings.Builder
	b.WriteString("Extraia o produto e a quantidade da mensagem.\n\n")
	b.WriteString("PRODUTOS DISPONÍVEIS:\n")
	writeCandidates(&b, descriptions, singleItemCandidateLimit)
	b.WriteString("\nRETORNE APENAS JSON:\n")
	b.WriteString("{\n  \"intent\": \"fazer_orcamento\",\n  \"produto\": \"nome_produto\",\n  \"quantidade\": numero\n}\n")
	return b.String()
}

// buildMultiItemPrompt asks for every product in the message as a JSON list.
func buildMultiItemPrompt(descriptions []string) string {
	var b strings.Builder
	b.WriteString("Você é um especialista em extrair informações de orçamentos. ")
	b.WriteString("Analise a mensagem e extraia TODOS os produtos mencionados.\n\n")
	b.WriteString("PRODUTOS DISPONÍVEIS:\n")
	writeCandidates(&b, descriptions, multiItemCandidateLimit)
	b.WriteString("\nINSTRUÇÕES IMPORTANTES:\n")
	b.WriteString("- Extraia TODOS os produtos da mensagem\n")
	b.WriteString("- Cada produto deve ter nome e quantidade\n")
	b.WriteString("- Use números por extenso: cinco=5, dez=10, três=3\n")
	b.WriteString("- Se não mencionar quantidade, use 1\n")
	b.WriteString("- Retorne APENAS JSON válido\n\n")
	b.WriteString("FORMATO OBRIGATÓRIO:\n")
	b.WriteString("{\"products\": [{\"name\": \"nome_exato_produto\", \"quantity\": numero}]}\n")
	return b.String()
}

func writeCandidates(b *strings.Builder, descriptions []string, limit int) {
	if len(descriptions) > limit {
		descriptions = descriptions[:limit]
	}
	for _, desc := range descriptions {
		b.WriteString("- ")
		b.WriteString(desc)
		b.WriteString("\n")
	}
}

// firstBraceBlock returns the first balanced {...} substring of the
// reply, tolerating surrounding prose. JSON string literals and escapes
// are respected so braces inside strings do not unbalance the scan.
func firstBraceBlock(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString:
			if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
