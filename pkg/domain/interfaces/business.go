package interfaces

import (
	"context"

	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
)

// BusinessStore is the order/inventory/invoice collaborator. The
// pipeline only needs narrow create/get/updateStatus operations; the
// store owns totals, stock counts and their consistency.
type BusinessStore interface {
	CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error
	ListOrdersByCustomer(ctx context.Context, customerID types.ActorID) ([]*model.Order, error)

	// OrderCountByCustomer feeds the new-customer rule
	OrderCountByCustomer(ctx context.Context, customerID types.ActorID) (int, error)

	CreateInvoice(ctx context.Context, invoice *model.Invoice) (*model.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*model.Invoice, error)
	ListInvoicesByCustomer(ctx context.Context, customerID types.ActorID) ([]*model.Invoice, error)

	// AdjustInventory applies quantity deltas per item
	AdjustInventory(ctx context.Context, changes []model.LineItem) error
}

// Exporter writes customer data exports. Returns an opaque reference
// (object URL or file path) to the written export.
type Exporter interface {
	Write(ctx context.Context, name string, data []byte) (string, error)
}
