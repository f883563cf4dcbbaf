package request

import "github.com/shopspring/decimal"

// CreateOrderRequest represents an order creation request
type CreateOrderRequest struct {
	Type              string `json:"type" binding:"omitempty,oneof=ONSPOT TAKEAWAY DELIVERY"`
	CustomerFirstName string `json:"customer_first_name" binding:"omitempty,max=255"`
	CustomerLastName  string `json:"customer_last_name" binding:"omitempty,max=255"`
	CustomerEmail     string `json:"customer_email" binding:"omitempty,email,max=255"`
	CustomerPhone     string `json:"customer_phone" binding:"omitempty,max=50"`
	CustomerAddress   string `json:"customer_address" binding:"omitempty,max=500"`
}

// UpdateOrderStatusRequest represents a status change request
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING PREPARING READY DELIVERED CANCELED"`
}

// ConfirmOrderRequest carries the cash handed over by the customer
type ConfirmOrderRequest struct {
	CashTendered *decimal.Decimal `json:"cash_tendered" binding:"required"`
}

// OrderFilterRequest represents order history filter parameters
type OrderFilterRequest struct {
	Status    string `form:"status" binding:"omitempty,oneof=PENDING PREPARING READY DELIVERED CANCELED"`
	Type      string `form:"type" binding:"omitempty,oneof=ONSPOT TAKEAWAY DELIVERY"`
	Day       string `form:"day" binding:"omitempty,datetime=2006-01-02"`
	Search    string `form:"search"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
