package types

// AuditEvent classifies an audit entry
type AuditEvent string

const (
	AuditEventRequestReceived       AuditEvent = "request_received"
	AuditEventRequestLocked         AuditEvent = "request_rejected_locked"
	AuditEventClassificationFailed  AuditEvent = "classification_failed"
	AuditEventClarificationRequired AuditEvent = "clarification_required"
	AuditEventApprovalCreated       AuditEvent = "approval_created"
	AuditEventApproved              AuditEvent = "approved"
	AuditEventRejected              AuditEvent = "rejected"
	AuditEventExecuted              AuditEvent = "executed"
	AuditEventExecutionFailed       AuditEvent = "execution_failed"
	AuditEventNotificationDropped   AuditEvent = "notification_dropped"
)

// String returns the string representation of the audit event
func (e AuditEvent) String() string {
	return string(e)
}
