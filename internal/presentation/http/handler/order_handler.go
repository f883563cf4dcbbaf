package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/caisse-api/internal/application/service"
	"github.com/sangkips/caisse-api/internal/domain/billing"
	"github.com/sangkips/caisse-api/internal/domain/entity"
	"github.com/sangkips/caisse-api/internal/domain/enum"
	"github.com/sangkips/caisse-api/internal/domain/repository"
	"github.com/sangkips/caisse-api/internal/presentation/http/dto/request"
	"github.com/sangkips/caisse-api/internal/presentation/http/dto/response"
	"github.com/sangkips/caisse-api/pkg/apperror"
	"github.com/sangkips/caisse-api/pkg/money"
	"github.com/sangkips/caisse-api/pkg/pagination"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List handles listing orders
func (h *OrderHandler) List(c *gin.Context) {
	var req request.OrderFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ValidationError(c, []apperror.FieldError{{Field: "query", Message: err.Error()}})
		return
	}

	params := &repository.OrderFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    req.Page,
			PerPage: req.PerPage,
		},
		BusinessDay: req.Day,
		Search:      req.Search,
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
	}
	if req.Status != "" {
		status, err := enum.ParseOrderStatus(req.Status)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		params.Status = &status
	}
	if req.Type != "" {
		orderType, err := enum.ParseOrderType(req.Type)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		params.Type = &orderType
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Orders retrieved successfully", result)
}

// Create handles opening a new order
func (h *OrderHandler) Create(c *gin.Context) {
	var req request.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	orderType := enum.OrderTypeOnSpot
	if req.Type != "" {
		parsed, err := enum.ParseOrderType(req.Type)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		orderType = parsed
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &service.CreateOrderInput{
		Type:              orderType,
		CustomerFirstName: req.CustomerFirstName,
		CustomerLastName:  req.CustomerLastName,
		CustomerEmail:     req.CustomerEmail,
		CustomerPhone:     req.CustomerPhone,
		CustomerAddress:   req.CustomerAddress,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// Get handles getting an order by ID
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// UpdateStatus handles moving an order through the kitchen workflow
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	var req request.UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := enum.ParseOrderStatus(req.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order status updated successfully", order)
}

// Cancel handles canceling an order
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order canceled successfully", order)
}

// Delete handles deleting an unconfirmed order
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order deleted successfully", nil)
}

// confirmResponse is the payload of a successful confirmation
type confirmResponse struct {
	Order     *entity.Order  `json:"order"`
	Totals    billing.Totals `json:"totals"`
	ChangeDue string         `json:"change_due"`
	Change    string         `json:"change_display"`
}

// Confirm handles numbering the order and issuing its invoice
func (h *OrderHandler) Confirm(c *gin.Context) {
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	var req request.ConfirmOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.orderService.Confirm(c.Request.Context(), id, *req.CashTendered)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order confirmed successfully", confirmResponse{
		Order:     result.Order,
		Totals:    result.Totals,
		ChangeDue: result.ChangeDue.StringFixed(2),
		Change:    money.Format(result.ChangeDue),
	})
}
