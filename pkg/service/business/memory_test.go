package business_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/service/business"
)

func TestMemoryStore_Orders(t *testing.T) {
	store := business.NewMemoryStore()
	ctx := context.Background()

	created, err := store.CreateOrder(ctx, &model.Order{
		CustomerID: "telegram:1",
		Amount:     1200,
		Items:      []model.LineItem{{Name: "rice", Quantity: 2, UnitPrice: 600}},
	})
	gt.NoError(t, err).Required()
	gt.Value(t, created.ID).NotEqual("")
	gt.Value(t, created.Status).Equal(model.OrderStatusCreated)

	got, err := store.GetOrder(ctx, created.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Amount).Equal(1200.0)

	gt.NoError(t, store.UpdateOrderStatus(ctx, created.ID, model.OrderStatusRefunded)).Required()
	got, err = store.GetOrder(ctx, created.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Status).Equal(model.OrderStatusRefunded)

	_, err = store.GetOrder(ctx, "nope")
	gt.Value(t, err).NotNil()
}

func TestMemoryStore_OrderCount(t *testing.T) {
	store := business.NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.CreateOrder(ctx, &model.Order{CustomerID: "telegram:1", Amount: 100})
		gt.NoError(t, err).Required()
	}
	_, err := store.CreateOrder(ctx, &model.Order{CustomerID: "telegram:2", Amount: 100})
	gt.NoError(t, err).Required()

	count, err := store.OrderCountByCustomer(ctx, "telegram:1")
	gt.NoError(t, err).Required()
	gt.Value(t, count).Equal(3)

	orders, err := store.ListOrdersByCustomer(ctx, "telegram:1")
	gt.NoError(t, err).Required()
	gt.Array(t, orders).Length(3)
}

func TestMemoryStore_Invoices(t *testing.T) {
	store := business.NewMemoryStore()
	ctx := context.Background()

	created, err := store.CreateInvoice(ctx, &model.Invoice{
		CustomerID: "whatsapp:+911234",
		Amount:     900,
	})
	gt.NoError(t, err).Required()
	gt.Value(t, created.Status).Equal(model.InvoiceStatusIssued)

	invoices, err := store.ListInvoicesByCustomer(ctx, "whatsapp:+911234")
	gt.NoError(t, err).Required()
	gt.Array(t, invoices).Length(1)
}

func TestMemoryStore_Inventory(t *testing.T) {
	store := business.NewMemoryStore()
	ctx := context.Background()

	gt.NoError(t, store.AdjustInventory(ctx, []model.LineItem{
		{Name: "rice", Quantity: 100},
		{Name: "sugar", Quantity: 50},
	})).Required()

	gt.NoError(t, store.AdjustInventory(ctx, []model.LineItem{
		{Name: "rice", Quantity: -30},
	})).Required()

	item, ok := store.Inventory("rice")
	gt.Bool(t, ok).True()
	gt.Value(t, item.Quantity).Equal(70)

	// a batch that would go negative is rejected whole
	err := store.AdjustInventory(ctx, []model.LineItem{
		{Name: "sugar", Quantity: -10},
		{Name: "rice", Quantity: -200},
	})
	gt.Value(t, err).NotNil()

	item, ok = store.Inventory("sugar")
	gt.Bool(t, ok).True()
	gt.Value(t, item.Quantity).Equal(50)
}

func TestFileExporter(t *testing.T) {
	dir := t.TempDir()
	exporter, err := business.NewFileExporter(dir)
	gt.NoError(t, err).Required()

	ref, err := exporter.Write(context.Background(), "export-1.json", []byte(`{"orders":[]}`))
	gt.NoError(t, err).Required()
	gt.Value(t, ref).Equal(filepath.Join(dir, "export-1.json"))

	data, err := os.ReadFile(ref)
	gt.NoError(t, err).Required()
	gt.Value(t, string(data)).Equal(`{"orders":[]}`)
}
