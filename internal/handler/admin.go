package handler

import (
	"log"
	"net/http"

	"carsearch/internal/catalog"
	"carsearch/internal/model"
	"carsearch/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes operational endpoints: catalog status, reload and
// document vector maintenance.
type AdminHandler struct {
	searchService *service.SearchService
	store         *catalog.Store
	dataFile      string
	bundle        *model.WeightBundle
}

// NewAdminHandler creates a new admin handler. dataFile is empty when the
// catalog comes from the database, which disables forced reload; bundle is
// nil when no trained weights are configured.
func NewAdminHandler(searchService *service.SearchService, store *catalog.Store, dataFile string, bundle *model.WeightBundle) *AdminHandler {
	return &AdminHandler{
		searchService: searchService,
		store:         store,
		dataFile:      dataFile,
		bundle:        bundle,
	}
}

// CatalogStatus handles GET /api/v1/admin/catalog
func (h *AdminHandler) CatalogStatus(c *gin.Context) {
	info := h.searchService.Catalog()
	if info == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog not loaded yet"})
		return
	}
	c.JSON(http.StatusOK, info)
}

// ReloadCatalog handles POST /api/v1/admin/catalog/reload
func (h *AdminHandler) ReloadCatalog(c *gin.Context) {
	if h.dataFile == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "Catalog source is not a file"})
		return
	}

	snap, err := catalog.LoadFile(h.dataFile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reload failed: " + err.Error()})
		return
	}
	h.store.Replace(snap)
	log.Printf("catalog reloaded via admin API: version=%s listings=%d", snap.Version, len(snap.Listings))

	c.JSON(http.StatusOK, gin.H{
		"status":   "reloaded",
		"version":  snap.Version,
		"listings": len(snap.Listings),
	})
}

// RebuildVectors handles POST /api/v1/admin/vectors/rebuild
func (h *AdminHandler) RebuildVectors(c *gin.Context) {
	if h.bundle == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "No weight bundle configured"})
		return
	}

	updated, err := h.searchService.RebuildDocVectors(c.Request.Context(), h.bundle)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Rebuild failed: " + err.Error(), "updated": updated})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rebuilt", "updated": updated})
}
