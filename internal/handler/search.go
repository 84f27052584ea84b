package handler

import (
	"net/http"

	"carsearch/internal/model"
	"carsearch/internal/service"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	searchService *service.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search handles POST /api/v1/search
func (h *SearchHandler) Search(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.searchService.Search(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetListing handles GET /api/v1/listings/:carNo
func (h *SearchHandler) GetListing(c *gin.Context) {
	carNo := c.Param("carNo")
	if carNo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing car number"})
		return
	}

	listing, err := h.searchService.GetListing(c.Request.Context(), carNo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lookup failed: " + err.Error()})
		return
	}
	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// GetMaintenance handles GET /api/v1/listings/:carNo/maintenance
func (h *SearchHandler) GetMaintenance(c *gin.Context) {
	carNo := c.Param("carNo")
	if carNo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing car number"})
		return
	}

	listing, checklist, err := h.searchService.MaintenanceChecklist(c.Request.Context(), carNo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lookup failed: " + err.Error()})
		return
	}
	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"listing": listing, "checklist": checklist})
}

// ResetSession handles DELETE /api/v1/sessions/:id
func (h *SearchHandler) ResetSession(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session id"})
		return
	}
	h.searchService.ResetSession(id)
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
