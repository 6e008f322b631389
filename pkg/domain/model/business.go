package model

import (
	"time"

	"github.com/munim-lab/munim/pkg/domain/types"
)

// OrderStatus is the lifecycle status of an order in the business store
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusRefunded  OrderStatus = "refunded"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a customer order held by the business store collaborator
type Order struct {
	ID         string
	CustomerID types.ActorID
	Items      []LineItem
	Amount     float64
	Status     OrderStatus
	CreatedAt  time.Time
}

// InvoiceStatus is the lifecycle status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusIssued InvoiceStatus = "issued"
	InvoiceStatusPaid   InvoiceStatus = "paid"
)

// Invoice is an issued invoice held by the business store collaborator
type Invoice struct {
	ID         string
	OrderID    string
	CustomerID types.ActorID
	Amount     float64
	Status     InvoiceStatus
	CreatedAt  time.Time
}

// InventoryItem is one stocked item
type InventoryItem struct {
	SKU      string
	Name     string
	Quantity int
}
