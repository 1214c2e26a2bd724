package localrestore

import (
	"context"

	"genomics-annotation-service/internal/domain/ports/adapter"
	"genomics-annotation-service/internal/usecase"
)

// Invoker runs the restore use case in-process. Used when no Lambda is
// deployed (restore.mode: local); the thaw coordinator then performs the
// restore itself.
type Invoker struct {
	uc *usecase.RestoreUseCase
}

func New(uc *usecase.RestoreUseCase) *Invoker {
	return &Invoker{uc: uc}
}

func (i *Invoker) Invoke(ctx context.Context, req adapter.RestoreRequest) (*adapter.RestoreResult, error) {
	if err := i.uc.Restore(ctx, req); err != nil {
		return nil, err
	}
	return &adapter.RestoreResult{Code: 200, Message: "restore complete"}, nil
}
