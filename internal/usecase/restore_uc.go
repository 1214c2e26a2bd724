// File: internal/usecase/restore_uc.go
package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"genomics-annotation-service/internal/domain"
	"genomics-annotation-service/internal/domain/ports/adapter"
	"genomics-annotation-service/internal/domain/ports/repository"
)

// RestoreUseCase is the single-shot restore function body: copy the thawed
// bytes back to hot storage at the original result location, delete the
// cold-tier archive, and finalize the record. Any failing step aborts and
// leaves the record RESTORING; re-invocation is safe while the retrieval
// window is open because the same thaw id re-fetches the same bytes.
type RestoreUseCase struct {
	jobs  repository.JobRepository
	store adapter.ObjectStore
	vault adapter.ArchiveVault
	log   *zerolog.Logger
}

func NewRestoreUseCase(
	jobs repository.JobRepository,
	store adapter.ObjectStore,
	vault adapter.ArchiveVault,
	logger *zerolog.Logger,
) *RestoreUseCase {
	l := logger.With().Str("component", "RestoreUseCase").Logger()
	return &RestoreUseCase{jobs: jobs, store: store, vault: vault, log: &l}
}

func (uc *RestoreUseCase) Restore(ctx context.Context, req adapter.RestoreRequest) error {
	log := uc.log.With().Str("job_id", req.JobID).Str("thaw_id", req.ThawID).Logger()

	// The coordinator only invokes after completion, but the invocation
	// channel can redeliver early. Refuse rather than stream a partial job.
	done, err := uc.vault.RetrievalComplete(ctx, req.ThawID)
	if err != nil {
		return fmt.Errorf("check retrieval %s: %w", req.ThawID, err)
	}
	if !done {
		return fmt.Errorf("retrieval %s: %w", req.ThawID, domain.ErrRetrievalNotReady)
	}

	out, err := uc.vault.RetrievalOutput(ctx, req.ThawID)
	if err != nil {
		return fmt.Errorf("fetch retrieval output: %w", err)
	}
	defer out.Close()

	if err := uc.store.PutObject(ctx, req.S3ResultsBucket, req.S3KeyResultFile, out); err != nil {
		return fmt.Errorf("copy to hot storage: %w", err)
	}

	if err := uc.vault.DeleteArchive(ctx, req.ArchiveID); err != nil {
		// The hot copy exists but the record still carries the archive id;
		// re-invocation will repeat the copy and retry the delete.
		return fmt.Errorf("delete archive %s: %w", req.ArchiveID, err)
	}

	if err := uc.jobs.MarkRestored(ctx, req.JobID); err != nil {
		return fmt.Errorf("finalize job record: %w", err)
	}

	log.Info().Str("key", req.S3KeyResultFile).Msg("result restored to hot storage")
	return nil
}
