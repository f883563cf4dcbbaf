package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/caisse-api/internal/application/service"
	"github.com/sangkips/caisse-api/internal/presentation/http/dto/request"
	"github.com/sangkips/caisse-api/internal/presentation/http/dto/response"
	"github.com/sangkips/caisse-api/pkg/apperror"
	"github.com/sangkips/caisse-api/pkg/money"
	"github.com/shopspring/decimal"
)

// CartHandler handles the lines of an open order
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get returns the cart with children nested under their parent line
func (h *CartHandler) Get(c *gin.Context) {
	orderID, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	view, err := h.cartService.GetCart(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart retrieved successfully", view)
}

// AddItem orders a catalog item, expanding combo selections into child lines
func (h *CartHandler) AddItem(c *gin.Context) {
	orderID, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	var req request.AddItemRequest
	if !bindJSON(c, &req) {
		return
	}

	lines, err := h.cartService.AddItem(c.Request.Context(), &service.AddItemInput{
		OrderID:    orderID,
		ItemID:     req.ItemID,
		Quantity:   req.Quantity,
		Comment:    req.Comment,
		Selections: req.Selections,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Item added to cart", lines)
}

// AddLine adds a single line at an explicit unit price
func (h *CartHandler) AddLine(c *gin.Context) {
	orderID, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	var req request.AddLineRequest
	if !bindJSON(c, &req) {
		return
	}

	line, err := h.cartService.AddLine(c.Request.Context(), &service.AddLineInput{
		OrderID:   orderID,
		ItemID:    req.ItemID,
		Quantity:  req.Quantity,
		UnitPrice: *req.UnitPrice,
		ParentID:  req.ParentID,
		Comment:   req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Line added to cart", line)
}

// SetQuantity changes a root line quantity; its children follow
func (h *CartHandler) SetQuantity(c *gin.Context) {
	orderID, ok := parseID(c, "id", "order")
	if !ok {
		return
	}
	lineID, ok := parseID(c, "line_id", "line")
	if !ok {
		return
	}

	var req request.SetQuantityRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.cartService.SetQuantity(c.Request.Context(), orderID, lineID, *req.Quantity); err != nil {
		response.Error(c, err)
		return
	}
	h.Get(c)
}

// RemoveLine removes a root line and its children
func (h *CartHandler) RemoveLine(c *gin.Context) {
	orderID, ok := parseID(c, "id", "order")
	if !ok {
		return
	}
	lineID, ok := parseID(c, "line_id", "line")
	if !ok {
		return
	}

	if err := h.cartService.RemoveLine(c.Request.Context(), orderID, lineID); err != nil {
		response.Error(c, err)
		return
	}
	h.Get(c)
}

// Totals returns HT, TVA per rate and TTC, plus change when ?cash= is given
func (h *CartHandler) Totals(c *gin.Context) {
	orderID, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	var cash *decimal.Decimal
	if raw := c.Query("cash"); raw != "" {
		amount, err := money.Parse(raw)
		if err != nil {
			response.ValidationError(c, []apperror.FieldError{{Field: "cash", Message: "must be a decimal amount"}})
			return
		}
		cash = &amount
	}

	totals, err := h.cartService.Totals(c.Request.Context(), orderID, cash)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Totals computed successfully", totals)
}
