package config

import "github.com/m-mizutani/goerr/v2"

// Rules holds the business-rule thresholds. One consistent set for the
// whole system; the only way to change a threshold is this struct.
type Rules struct {
	// HighValueThreshold gates create_order/refund amounts (strict >)
	HighValueThreshold float64
	// RefundThreshold gates refund amounts (strict >)
	RefundThreshold float64
	// BulkOrderThreshold gates order quantities (strict >)
	BulkOrderThreshold int
	// NewCustomerOrderCount marks a customer as new (strict <)
	NewCustomerOrderCount int
	// NewCustomerAmount pairs with NewCustomerOrderCount (strict >)
	NewCustomerAmount float64
	// InvoiceThreshold gates generate_invoice amounts (strict >)
	InvoiceThreshold float64
	// InventoryQuantityThreshold gates per-item inventory changes (strict >)
	InventoryQuantityThreshold int
	// ConfidenceFloor forces approval below it (strict <)
	ConfidenceFloor float64
}

// DefaultRules returns the authoritative default thresholds
func DefaultRules() *Rules {
	return &Rules{
		HighValueThreshold:         10000,
		RefundThreshold:            1000,
		BulkOrderThreshold:         50,
		NewCustomerOrderCount:      3,
		NewCustomerAmount:          5000,
		InvoiceThreshold:           1000,
		InventoryQuantityThreshold: 100,
		ConfidenceFloor:            0.6,
	}
}

// Validate checks if the rule set is usable
func (r *Rules) Validate() error {
	if r.HighValueThreshold <= 0 {
		return goerr.New("high value threshold must be positive", goerr.V("value", r.HighValueThreshold))
	}
	if r.RefundThreshold <= 0 {
		return goerr.New("refund threshold must be positive", goerr.V("value", r.RefundThreshold))
	}
	if r.BulkOrderThreshold <= 0 {
		return goerr.New("bulk order threshold must be positive", goerr.V("value", r.BulkOrderThreshold))
	}
	if r.NewCustomerOrderCount < 0 {
		return goerr.New("new customer order count must not be negative", goerr.V("value", r.NewCustomerOrderCount))
	}
	if r.InventoryQuantityThreshold <= 0 {
		return goerr.New("inventory quantity threshold must be positive", goerr.V("value", r.InventoryQuantityThreshold))
	}
	if r.ConfidenceFloor < 0 || r.ConfidenceFloor > 1 {
		return goerr.New("confidence floor must be within [0,1]", goerr.V("value", r.ConfidenceFloor))
	}
	return nil
}
