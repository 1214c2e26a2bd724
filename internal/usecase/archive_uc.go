// File: internal/usecase/archive_uc.go
package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"genomics-annotation-service/internal/domain"
	"genomics-annotation-service/internal/domain/ports/adapter"
	"genomics-annotation-service/internal/domain/ports/repository"
	"genomics-annotation-service/internal/infra/logging"
	"genomics-annotation-service/internal/infra/metrics"

	"genomics-annotation-service/internal/domain/model"
)

// ArchiveUseCase moves completed free-tier results from hot storage into
// the cold tier. The message is always acknowledged once a decision has
// been made, whether or not the user was still eligible, so stale requests
// are never reprocessed.
type ArchiveUseCase struct {
	jobs  repository.JobRepository
	users repository.UserProfileRepository
	store adapter.ObjectStore
	vault adapter.ArchiveVault
	log   *zerolog.Logger
}

func NewArchiveUseCase(
	jobs repository.JobRepository,
	users repository.UserProfileRepository,
	store adapter.ObjectStore,
	vault adapter.ArchiveVault,
	logger *zerolog.Logger,
) *ArchiveUseCase {
	l := logger.With().Str("component", "ArchiveUseCase").Logger()
	return &ArchiveUseCase{jobs: jobs, users: users, store: store, vault: vault, log: &l}
}

func (uc *ArchiveUseCase) HandleRequest(ctx context.Context, body []byte) Result {
	defer logging.TraceDuration(uc.log, "ArchiveUseCase.HandleRequest")()

	var ev model.ArchiveEvent
	if err := model.DecodeEvent(body, &ev); err != nil {
		uc.log.Error().Err(err).Msg("malformed archive message")
		return ResultDrop
	}
	if err := ev.Validate(); err != nil {
		uc.log.Error().Err(err).Msg("invalid archive message")
		return ResultDrop
	}
	log := uc.log.With().Str("job_id", ev.JobID).Str("user_id", ev.UserID).Logger()

	// The tier may have changed between enqueue and processing; only the
	// current role decides.
	profile, err := uc.users.FindByID(ctx, ev.UserID)
	if err != nil {
		if err == domain.ErrNotFound {
			log.Error().Msg("archive request for unknown user")
			return ResultDrop
		}
		log.Error().Err(err).Msg("user profile lookup failed")
		return ResultRetry
	}
	if !profile.FreeTier() {
		log.Info().Str("role", string(profile.Role)).Msg("user no longer free tier, archive request skipped")
		return ResultOK
	}

	data, err := uc.store.GetObject(ctx, ev.S3BucketName, ev.ResultsS3Key)
	if err != nil {
		if err == domain.ErrNotFound {
			// Redelivery after a run that already moved the object cold.
			log.Warn().Str("key", ev.ResultsS3Key).Msg("hot copy already gone, nothing to archive")
			return ResultOK
		}
		log.Error().Err(err).Str("key", ev.ResultsS3Key).Msg("result fetch from hot storage failed")
		return ResultRetry
	}

	archiveID, err := uc.vault.Upload(ctx, data, fmt.Sprintf("job:%s", ev.JobID))
	if err != nil {
		log.Error().Err(err).Msg("cold tier upload failed")
		return ResultRetry
	}
	metrics.IncArchiveCreated()

	// From here on the archive exists; the message is acknowledged no
	// matter what, and partial failures are logged with both identifiers
	// so an operator can reconcile.
	if err := uc.store.Delete(ctx, ev.S3BucketName, ev.ResultsS3Key); err != nil {
		log.Error().Err(err).
			Str("key", ev.ResultsS3Key).
			Str("archive_id", archiveID).
			Msg("hot copy delete failed, orphaned object left behind")
	}
	if err := uc.jobs.MarkArchived(ctx, ev.JobID, archiveID); err != nil {
		log.Error().Err(err).
			Str("archive_id", archiveID).
			Msg("failed to record archive id on job record")
		return ResultOK
	}

	log.Info().Str("archive_id", archiveID).Msg("result archived")
	return ResultOK
}
