package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkOrderStatus indicates the lifecycle state of a work order.
type WorkOrderStatus string

const (
	WorkOrderPending    WorkOrderStatus = "PENDING"
	WorkOrderInProgress WorkOrderStatus = "IN_PROGRESS"
	WorkOrderDone       WorkOrderStatus = "DONE"
	WorkOrderCancelled  WorkOrderStatus = "CANCELLED"
)

// WorkOrder is a numbered job document with ordered line items.
type WorkOrder struct {
	WorkOrderID  string          `json:"workOrderID"` // Primary Key (UUID)
	CompanyID    string          `json:"companyID"`   // FK -> companies.company_id
	Number       string          `json:"number"`      // e.g. "OT0012"
	CustomerName string          `json:"customerName"`
	OrderDate    time.Time       `json:"orderDate"`
	Status       WorkOrderStatus `json:"status"`
	Notes        string          `json:"notes"`
	Items        []WorkOrderItem `json:"items,omitempty"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxTotal     decimal.Decimal `json:"taxTotal"`
	Total        decimal.Decimal `json:"total"`
	AuditFields
}

// WorkOrderItem is a single priced line on a work order.
type WorkOrderItem struct {
	ItemID      string          `json:"itemID"`      // Primary Key (UUID)
	WorkOrderID string          `json:"workOrderID"` // FK -> work_orders.work_order_id
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
	Total       decimal.Decimal `json:"total"`
	Position    int             `json:"position"`
}
