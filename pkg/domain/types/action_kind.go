package types

import "fmt"

// ActionKind represents the business action a classified message asks for
type ActionKind string

const (
	ActionCreateOrder         ActionKind = "create_order"
	ActionGenerateInvoice     ActionKind = "generate_invoice"
	ActionSendPaymentReminder ActionKind = "send_payment_reminder"
	ActionUpdateInventory     ActionKind = "update_inventory"
	ActionRefund              ActionKind = "refund"
	ActionDataExport          ActionKind = "data_export"
	ActionFollowUp            ActionKind = "follow_up"
	ActionGeneralQuery        ActionKind = "general_query"
)

// AllActionKinds returns all valid action kinds
func AllActionKinds() []ActionKind {
	return []ActionKind{
		ActionCreateOrder,
		ActionGenerateInvoice,
		ActionSendPaymentReminder,
		ActionUpdateInventory,
		ActionRefund,
		ActionDataExport,
		ActionFollowUp,
		ActionGeneralQuery,
	}
}

// IsValid checks if the action kind is valid
func (k ActionKind) IsValid() bool {
	switch k {
	case ActionCreateOrder,
		ActionGenerateInvoice,
		ActionSendPaymentReminder,
		ActionUpdateInventory,
		ActionRefund,
		ActionDataExport,
		ActionFollowUp,
		ActionGeneralQuery:
		return true
	default:
		return false
	}
}

// String returns the string representation of the action kind
func (k ActionKind) String() string {
	return string(k)
}

// ParseActionKind parses a string into an ActionKind
func ParseActionKind(s string) (ActionKind, error) {
	kind := ActionKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid action kind: %s", s)
	}
	return kind, nil
}
