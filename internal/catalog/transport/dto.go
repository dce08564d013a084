// Package transport defines the DTOs for the catalog inspection
// endpoints.
package transport

// ProductResult is one matched catalog entry in a search response.
type ProductResult struct {
	Description string  `json:"descricao"`
	Dimension   string  `json:"dimensao,omitempty"`
	Price       float64 `json:"valor"`
	HasPrice    bool    `json:"tem_valor"`
}

// CatalogInfo describes the loaded catalog file for the admin endpoint.
type CatalogInfo struct {
	FileExists     bool      `json:"arquivo_existe"`
	Path           string    `json:"arquivo"`
	TotalRecords   int       `json:"total_registros"`
	Columns        []string  `json:"colunas"`
	DescriptionCol string    `json:"coluna_descricao,omitempty"`
	DimensionCol   string    `json:"coluna_dimensao,omitempty"`
	PriceCol       string    `json:"coluna_valor,omitempty"`
	SampleProducts []string  `json:"produtos_exemplo,omitempty"`
	SamplePrices   []float64 `json:"valores_exemplo,omitempty"`
}

// SearchResponse is the body of the search test endpoint.
type SearchResponse struct {
	Query   string          `json:"produto_buscado"`
	Results []ProductResult `json:"resultados"`
}

// DebugSearchRequest is the body of the search debug endpoint.
type DebugSearchRequest struct {
	Term string `json:"termo" validate:"required"`
}

// DebugSearchResponse aggregates everything the pipeline derives from a
// search term: matches, miss analysis and the resolved intent.
type DebugSearchResponse struct {
	Term         string          `json:"termo_busca"`
	Results      []ProductResult `json:"produtos_encontrados"`
	MissAnalysis *string         `json:"analise_falha"`
	Intent       ResolvedIntent  `json:"intencao"`
}

// ResolvedIntent is the resolver output for the debug endpoint.
type ResolvedIntent struct {
	Kind     string `json:"intent"`
	Product  string `json:"produto"`
	Quantity int    `json:"quantidade"`
}
