package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type executionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newExecutionRepository(client *firestore.Client) *executionRepository {
	return &executionRepository{client: client}
}

func (r *executionRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_executions"
	}
	return "executions"
}

func (r *executionRepository) Put(ctx context.Context, result *model.ExecutionResult) error {
	// Create fails on an existing document, which is exactly the
	// write-once semantics the idempotency cache needs.
	_, err := r.client.Collection(r.collection()).Doc(result.RequestID.String()).Create(ctx, result)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.Wrap(interfaces.ErrResultExists, "execution result already stored",
				goerr.V("request_id", result.RequestID))
		}
		return goerr.Wrap(err, "failed to store execution result", goerr.V("request_id", result.RequestID))
	}
	return nil
}

func (r *executionRepository) Get(ctx context.Context, requestID types.RequestID) (*model.ExecutionResult, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(requestID.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get execution result", goerr.V("request_id", requestID))
	}

	var result model.ExecutionResult
	if err := docSnap.DataTo(&result); err != nil {
		return nil, goerr.Wrap(err, "failed to decode execution result", goerr.V("request_id", requestID))
	}

	return &result, nil
}
