// Package business provides the order/inventory/invoice collaborator
// implementations and the data exporters.
package business

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
)

// MemoryStore is the in-process business store, used for local runs and
// tests. All operations are safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	orders    map[string]*model.Order
	invoices  map[string]*model.Invoice
	inventory map[string]*model.InventoryItem
}

var _ interfaces.BusinessStore = &MemoryStore{}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders:    make(map[string]*model.Order),
		invoices:  make(map[string]*model.Invoice),
		inventory: make(map[string]*model.InventoryItem),
	}
}

func (s *MemoryStore) CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := *order
	if created.ID == "" {
		created.ID = uuid.Must(uuid.NewV7()).String()
	}
	if created.Status == "" {
		created.Status = model.OrderStatusCreated
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	s.orders[created.ID] = &created
	result := created
	return &result, nil
}

func (s *MemoryStore) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, exists := s.orders[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "order not found", goerr.V("order_id", id))
	}

	result := *order
	return &result, nil
}

func (s *MemoryStore) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, exists := s.orders[id]
	if !exists {
		return goerr.Wrap(interfaces.ErrNotFound, "order not found", goerr.V("order_id", id))
	}

	order.Status = status
	return nil
}

func (s *MemoryStore) ListOrdersByCustomer(ctx context.Context, customerID types.ActorID) ([]*model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]*model.Order, 0)
	for _, order := range s.orders {
		if order.CustomerID == customerID {
			result := *order
			orders = append(orders, &result)
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *MemoryStore) OrderCountByCustomer(ctx context.Context, customerID types.ActorID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, order := range s.orders {
		if order.CustomerID == customerID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) CreateInvoice(ctx context.Context, invoice *model.Invoice) (*model.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := *invoice
	if created.ID == "" {
		created.ID = uuid.Must(uuid.NewV7()).String()
	}
	if created.Status == "" {
		created.Status = model.InvoiceStatusIssued
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	s.invoices[created.ID] = &created
	result := created
	return &result, nil
}

func (s *MemoryStore) GetInvoice(ctx context.Context, id string) (*model.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	invoice, exists := s.invoices[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "invoice not found", goerr.V("invoice_id", id))
	}

	result := *invoice
	return &result, nil
}

func (s *MemoryStore) ListInvoicesByCustomer(ctx context.Context, customerID types.ActorID) ([]*model.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	invoices := make([]*model.Invoice, 0)
	for _, invoice := range s.invoices {
		if invoice.CustomerID == customerID {
			result := *invoice
			invoices = append(invoices, &result)
		}
	}

	sort.Slice(invoices, func(i, j int) bool {
		return invoices[i].CreatedAt.After(invoices[j].CreatedAt)
	})
	return invoices, nil
}

func (s *MemoryStore) AdjustInventory(ctx context.Context, changes []model.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// validate first so a partial batch never lands
	for _, change := range changes {
		item, exists := s.inventory[change.Name]
		if exists && item.Quantity+change.Quantity < 0 {
			return goerr.New("inventory cannot go negative",
				goerr.V("item", change.Name),
				goerr.V("current", item.Quantity),
				goerr.V("delta", change.Quantity))
		}
		if !exists && change.Quantity < 0 {
			return goerr.New("cannot reduce unknown inventory item", goerr.V("item", change.Name))
		}
	}

	for _, change := range changes {
		item, exists := s.inventory[change.Name]
		if !exists {
			s.inventory[change.Name] = &model.InventoryItem{
				SKU:      change.Name,
				Name:     change.Name,
				Quantity: change.Quantity,
			}
			continue
		}
		item.Quantity += change.Quantity
	}
	return nil
}

// Inventory returns a snapshot of one item, for tests and the admin API
func (s *MemoryStore) Inventory(name string) (*model.InventoryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.inventory[name]
	if !exists {
		return nil, false
	}
	result := *item
	return &result, true
}
