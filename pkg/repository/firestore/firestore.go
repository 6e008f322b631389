package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/interfaces"
)

// Firestore is the production repository backend. Approval resolution
// and lock handling run in Firestore transactions, so the resolve +
// release atomicity holds across multiple server instances.
type Firestore struct {
	client    *firestore.Client
	requests  *requestRepository
	approvals *approvalRepository
	audit     *auditRepository
	execution *executionRepository
	history   *historyRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes all collection names, mainly for tests
// sharing one database
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.requests.collectionPrefix = prefix
		f.approvals.collectionPrefix = prefix
		f.audit.collectionPrefix = prefix
		f.execution.collectionPrefix = prefix
		f.history.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client:    client,
		requests:  newRequestRepository(client),
		approvals: newApprovalRepository(client),
		audit:     newAuditRepository(client),
		execution: newExecutionRepository(client),
		history:   newHistoryRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Request() interfaces.RequestRepository {
	return f.requests
}

func (f *Firestore) Approval() interfaces.ApprovalRepository {
	return f.approvals
}

func (f *Firestore) Lock() interfaces.ActionLock {
	return f.approvals
}

func (f *Firestore) Audit() interfaces.AuditRepository {
	return f.audit
}

func (f *Firestore) Execution() interfaces.ExecutionRepository {
	return f.execution
}

func (f *Firestore) History() interfaces.HistoryRepository {
	return f.history
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
