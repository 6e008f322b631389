package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
)

type executionRepository struct {
	mu      sync.RWMutex
	results map[types.RequestID]*model.ExecutionResult
}

func newExecutionRepository() *executionRepository {
	return &executionRepository{
		results: make(map[types.RequestID]*model.ExecutionResult),
	}
}

func copyResult(r *model.ExecutionResult) *model.ExecutionResult {
	copied := *r
	return &copied
}

func (r *executionRepository) Put(ctx context.Context, result *model.ExecutionResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.results[result.RequestID]; exists {
		return goerr.Wrap(interfaces.ErrResultExists, "execution result already stored",
			goerr.V("request_id", result.RequestID))
	}

	r.results[result.RequestID] = copyResult(result)
	return nil
}

func (r *executionRepository) Get(ctx context.Context, requestID types.RequestID) (*model.ExecutionResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result, exists := r.results[requestID]
	if !exists {
		return nil, nil
	}

	return copyResult(result), nil
}
