package interfaces

// Repository defines the interface for data persistence owned by the
// pipeline itself (requests, approvals, locks, audit, execution cache,
// conversation history). Business entities live in the BusinessStore
// collaborator instead.
type Repository interface {
	Request() RequestRepository
	Approval() ApprovalRepository
	Lock() ActionLock
	Audit() AuditRepository
	Execution() ExecutionRepository
	History() HistoryRepository

	Close() error
}
