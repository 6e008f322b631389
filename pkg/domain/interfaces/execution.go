package interfaces

import (
	"context"

	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
)

// ExecutionRepository is the idempotency cache of executor results
type ExecutionRepository interface {
	// Put stores the result for a request. A result, once stored, is
	// never replaced.
	Put(ctx context.Context, result *model.ExecutionResult) error

	// Get retrieves the stored result for a request. Returns nil, nil
	// when the request has not been executed.
	Get(ctx context.Context, requestID types.RequestID) (*model.ExecutionResult, error)
}
