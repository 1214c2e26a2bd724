// File: internal/usecase/thaw_uc.go
package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"genomics-annotation-service/internal/domain"
	"genomics-annotation-service/internal/domain/model"
	"genomics-annotation-service/internal/domain/ports/adapter"
	"genomics-annotation-service/internal/domain/ports/repository"
	"genomics-annotation-service/internal/infra/logging"
	"genomics-annotation-service/internal/infra/metrics"
)

// ThawUseCase drives the two-phase retrieval state machine. The STARTED
// phase initiates a cold-tier retrieval (expedited, with a single fallback
// to standard) and republishes the event as IN PROGRESS; the IN PROGRESS
// phase polls the retrieval job and, once complete, hands off to the
// restore function. State lives entirely in the message, so the
// coordinator is stateless and restart-tolerant.
type ThawUseCase struct {
	jobs    repository.JobRepository
	vault   adapter.ArchiveVault
	thawPub adapter.Publisher
	restore adapter.RestoreInvoker
	log     *zerolog.Logger
}

func NewThawUseCase(
	jobs repository.JobRepository,
	vault adapter.ArchiveVault,
	thawPub adapter.Publisher,
	restore adapter.RestoreInvoker,
	logger *zerolog.Logger,
) *ThawUseCase {
	l := logger.With().Str("component", "ThawUseCase").Logger()
	return &ThawUseCase{jobs: jobs, vault: vault, thawPub: thawPub, restore: restore, log: &l}
}

func (uc *ThawUseCase) HandleEvent(ctx context.Context, body []byte) Result {
	defer logging.TraceDuration(uc.log, "ThawUseCase.HandleEvent")()

	var ev model.ThawEvent
	if err := model.DecodeEvent(body, &ev); err != nil {
		uc.log.Error().Err(err).Msg("malformed thaw message")
		return ResultDrop
	}
	phase, err := ev.Phase()
	if err != nil {
		uc.log.Error().Err(err).Msg("invalid thaw message")
		return ResultDrop
	}
	log := uc.log.With().Str("job_id", ev.JobID).Str("user_id", ev.UserID).Logger()

	switch p := phase.(type) {
	case model.ThawStarted:
		return uc.handleStarted(ctx, ev, p, &log)
	case model.ThawInProgress:
		return uc.handleInProgress(ctx, ev, p, &log)
	default:
		// Phase() already rejects unknown statuses.
		return ResultDrop
	}
}

func (uc *ThawUseCase) handleStarted(ctx context.Context, ev model.ThawEvent, p model.ThawStarted, log *zerolog.Logger) Result {
	thawID, err := uc.initiateWithFallback(ctx, p.ArchiveID, log)
	if err != nil {
		// Left for redelivery; no state has changed.
		log.Error().Err(err).Str("archive_id", p.ArchiveID).Msg("retrieval initiation failed")
		return ResultRetry
	}
	log.Info().Str("thaw_id", thawID).Msg("retrieval initiated")

	// The retrieval is running regardless of what follows, so a failed
	// record update is logged rather than retried: re-initiating on
	// redelivery would spawn duplicate retrieval jobs.
	if err := uc.jobs.MarkRestoring(ctx, ev.JobID); err != nil {
		log.Error().Err(err).Msg("failed to mark job RESTORING")
	}

	next := ev.InProgress(thawID)
	body, err := json.Marshal(next)
	if err != nil {
		log.Error().Err(err).Msg("thaw event marshal failed")
		return ResultRetry
	}
	if err := uc.thawPub.Publish(ctx, body, "Thaw Process Submission"); err != nil {
		log.Error().Err(err).Msg("thaw progression publish failed")
		return ResultRetry
	}
	return ResultOK
}

// initiateWithFallback requests an expedited retrieval and, on a capacity
// rejection, retries exactly once at the standard tier. No further
// escalation.
func (uc *ThawUseCase) initiateWithFallback(ctx context.Context, archiveID string, log *zerolog.Logger) (string, error) {
	thawID, err := uc.vault.InitiateRetrieval(ctx, archiveID, adapter.TierExpedited)
	if err == nil {
		metrics.IncRetrievalInitiated(string(adapter.TierExpedited))
		return thawID, nil
	}
	if !errors.Is(err, domain.ErrInsufficientCapacity) {
		return "", err
	}

	log.Warn().Str("archive_id", archiveID).Msg("expedited retrieval capacity exceeded, falling back to standard")
	metrics.IncExpeditedFallback()
	thawID, err = uc.vault.InitiateRetrieval(ctx, archiveID, adapter.TierStandard)
	if err != nil {
		return "", err
	}
	metrics.IncRetrievalInitiated(string(adapter.TierStandard))
	return thawID, nil
}

func (uc *ThawUseCase) handleInProgress(ctx context.Context, ev model.ThawEvent, p model.ThawInProgress, log *zerolog.Logger) Result {
	done, err := uc.vault.RetrievalComplete(ctx, p.ThawID)
	if err != nil {
		log.Error().Err(err).Str("thaw_id", p.ThawID).Msg("retrieval status check failed")
		return ResultRetry
	}
	if !done {
		// The visibility window provides the poll cadence; no sleeping here.
		log.Debug().Str("thaw_id", p.ThawID).Msg("retrieval not yet complete")
		return ResultRetry
	}

	req := adapter.RestoreRequest{
		JobID:           ev.JobID,
		UserID:          ev.UserID,
		S3ResultsBucket: ev.S3ResultsBucket,
		S3KeyResultFile: ev.S3KeyResultFile,
		ArchiveID:       ev.ResultsFileArchiveID,
		ThawID:          p.ThawID,
	}
	res, err := uc.restore.Invoke(ctx, req)
	if err != nil {
		metrics.IncRestoreInvocation("error")
		log.Error().Err(err).Str("thaw_id", p.ThawID).Msg("restore invocation failed")
		return ResultRetry
	}
	metrics.IncRestoreInvocation("ok")
	log.Info().Int("code", res.Code).Str("message", res.Message).Msg("restore function invoked")
	return ResultOK
}
