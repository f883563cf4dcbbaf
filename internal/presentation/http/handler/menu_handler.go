package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/caisse-api/internal/application/service"
	"github.com/sangkips/caisse-api/internal/presentation/http/dto/response"
)

// MenuHandler exposes the restaurant and its catalog
type MenuHandler struct {
	catalogService *service.CatalogService
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(catalogService *service.CatalogService) *MenuHandler {
	return &MenuHandler{catalogService: catalogService}
}

// GetRestaurant returns the restaurant of the request
func (h *MenuHandler) GetRestaurant(c *gin.Context) {
	restaurant, err := h.catalogService.GetRestaurant(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Restaurant retrieved successfully", restaurant)
}

// ListItems returns the menu; ?include_hidden=true also lists hidden items
func (h *MenuHandler) ListItems(c *gin.Context) {
	includeHidden, _ := strconv.ParseBool(c.DefaultQuery("include_hidden", "false"))

	items, err := h.catalogService.ListItems(c.Request.Context(), includeHidden)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Menu retrieved successfully", items)
}

// GetItem returns one item with its combo options
func (h *MenuHandler) GetItem(c *gin.Context) {
	id, ok := parseID(c, "id", "item")
	if !ok {
		return
	}

	item, err := h.catalogService.GetItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item retrieved successfully", item)
}
