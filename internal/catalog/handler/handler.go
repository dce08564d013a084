// Package handler exposes the catalog inspection and debug endpoints.
package handler

import (
	"net/http"
	"os"

	"orcamento_backend/internal/catalog/repository"
	catalogsvc "orcamento_backend/internal/catalog/service"
	"orcamento_backend/internal/catalog/transport"
	"orcamento_backend/internal/intent"
	"orcamento_backend/platform/httpkit"
	"orcamento_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const sampleSize = 5

// Handler serves read-only views over the loaded catalog.
type Handler struct {
	repo     *repository.Repository
	snapshot *repository.Snapshot
	matcher  *catalogsvc.Matcher
	resolver *intent.Resolver
	val      *validator.Validator
}

func New(repo *repository.Repository, snapshot *repository.Snapshot, matcher *catalogsvc.Matcher, resolver *intent.Resolver, val *validator.Validator) *Handler {
	return &Handler{repo: repo, snapshot: snapshot, matcher: matcher, resolver: resolver, val: val}
}

// RegisterRoutes mounts the public catalog routes on the v1 group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/catalog/search/:query", h.Search)
	rg.POST("/debug/search", h.DebugSearch)
}

// RegisterAdminRoutes mounts the inspection routes on the admin group.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/catalog", h.Info)
}

// Info reports the catalog file status, detected columns and a sample
// of its contents.
func (h *Handler) Info(c *gin.Context) {
	info := transport.CatalogInfo{Path: h.repo.Path()}
	if _, err := os.Stat(h.repo.Path()); err == nil {
		info.FileExists = true
	}

	columns, rowCount, err := h.snapshot.Info()
	if err != nil {
		// The file status is still useful when loading fails.
		httpkit.OK(c, info)
		return
	}
	info.TotalRecords = rowCount
	info.Columns = columns

	if roles, err := h.snapshot.Roles(); err == nil {
		info.DescriptionCol = roles.Description
		info.DimensionCol = roles.Dimension
		info.PriceCol = roles.Price
	}

	if entries, err := h.snapshot.Entries(); err == nil {
		for i, e := range entries {
			if i == sampleSize {
				break
			}
			info.SampleProducts = append(info.SampleProducts, e.Description)
			info.SamplePrices = append(info.SamplePrices, e.Price)
		}
	}

	httpkit.OK(c, info)
}

// Search runs the product matcher for a query.
func (h *Handler) Search(c *gin.Context) {
	query := c.Param("query")
	httpkit.OK(c, transport.SearchResponse{
		Query:   query,
		Results: toResults(h.matcher.Find(query)),
	})
}

// DebugSearch runs the full understanding pipeline for one term:
// matcher, miss analysis and intent resolution.
func (h *Handler) DebugSearch(c *gin.Context) {
	var req transport.DebugSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Termo de busca não fornecido", err.Error())
		return
	}

	found := h.matcher.Find(req.Term)
	resp := transport.DebugSearchResponse{
		Term:    req.Term,
		Results: toResults(found),
	}
	if len(found) == 0 {
		analysis := h.matcher.ExplainMiss(req.Term)
		resp.MissAnalysis = &analysis
	}

	it := h.resolver.ResolveIntent(c.Request.Context(), req.Term, false)
	resp.Intent = transport.ResolvedIntent{
		Kind:     string(it.Kind),
		Product:  it.Product,
		Quantity: it.Quantity,
	}

	httpkit.OK(c, resp)
}

func toResults(entries []repository.Entry) []transport.ProductResult {
	results := make([]transport.ProductResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, transport.ProductResult{
			Description: e.Description,
			Dimension:   e.Dimension,
			Price:       e.Price,
			HasPrice:    e.HasPrice,
		})
	}
	return results
}
