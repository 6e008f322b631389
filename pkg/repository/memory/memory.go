package memory

import (
	"github.com/munim-lab/munim/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is the in-memory repository backend, intended for development
// and tests. A single-process deployment only: the lock/approval
// invariants hold within one process.
type Memory struct {
	requests  *requestRepository
	approvals *approvalRepository
	audit     *auditRepository
	execution *executionRepository
	history   *historyRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		requests:  newRequestRepository(),
		approvals: newApprovalRepository(),
		audit:     newAuditRepository(),
		execution: newExecutionRepository(),
		history:   newHistoryRepository(),
	}
}

func (m *Memory) Request() interfaces.RequestRepository {
	return m.requests
}

func (m *Memory) Approval() interfaces.ApprovalRepository {
	return m.approvals
}

// Lock shares state with the approval repository: resolution and lock
// release happen under one mutex, making them observable atomically.
func (m *Memory) Lock() interfaces.ActionLock {
	return m.approvals
}

func (m *Memory) Audit() interfaces.AuditRepository {
	return m.audit
}

func (m *Memory) Execution() interfaces.ExecutionRepository {
	return m.execution
}

func (m *Memory) History() interfaces.HistoryRepository {
	return m.history
}

func (m *Memory) Close() error {
	return nil
}
