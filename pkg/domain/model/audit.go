package model

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/masq"
	"github.com/munim-lab/munim/pkg/domain/types"
)

// AuditEntry is an immutable record of one state transition. Entries
// are append-only; nothing in this system mutates or deletes them.
type AuditEntry struct {
	ID        types.AuditID
	Timestamp time.Time
	ActorID   types.ActorID
	Event     types.AuditEvent
	Detail    map[string]any
}

// auditFilter redacts PII from audit detail. Audit detail is rendered
// in admin tooling, so raw phone numbers and tagged secrets must not
// be persisted.
var auditFilter = masq.New(
	masq.WithTag("secret"),
	masq.WithFieldName("CustomerPhone"),
	masq.WithFieldPrefix("secret_"),
)

// MaskDetail returns a deep copy of v with sensitive fields redacted
func MaskDetail(v any) any {
	attr := auditFilter(nil, slog.Any("detail", v))
	return attr.Value.Any()
}

// NewAuditEntry builds a masked audit entry
func NewAuditEntry(actorID types.ActorID, event types.AuditEvent, detail map[string]any) *AuditEntry {
	masked := make(map[string]any, len(detail))
	for k, v := range detail {
		masked[k] = MaskDetail(v)
	}
	return &AuditEntry{
		ID:        types.NewAuditID(),
		Timestamp: time.Now().UTC(),
		ActorID:   actorID,
		Event:     event,
		Detail:    masked,
	}
}
