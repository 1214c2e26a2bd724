// File: internal/usecase/annotation_uc.go
package usecase

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"genomics-annotation-service/internal/domain"
	"genomics-annotation-service/internal/domain/model"
	"genomics-annotation-service/internal/domain/ports/adapter"
	"genomics-annotation-service/internal/domain/ports/repository"
	"genomics-annotation-service/internal/infra/metrics"
)

// AnnotationUseCase consumes submission events: it stages the input file
// locally, launches the annotation subprocess, claims the job via the
// conditional PENDING->RUNNING transition, and after the subprocess exits
// finalizes the job (uploads artifacts, marks COMPLETED, routes free-tier
// results toward archival).
type AnnotationUseCase struct {
	jobs       repository.JobRepository
	users      repository.UserProfileRepository
	store      adapter.ObjectStore
	runner     adapter.AnnotationRunner
	archivePub adapter.Publisher

	resultsBucket string
	keyPrefix     string
	scratchDir    string

	wg  sync.WaitGroup
	log *zerolog.Logger
}

func NewAnnotationUseCase(
	jobs repository.JobRepository,
	users repository.UserProfileRepository,
	store adapter.ObjectStore,
	runner adapter.AnnotationRunner,
	archivePub adapter.Publisher,
	resultsBucket, keyPrefix, scratchDir string,
	logger *zerolog.Logger,
) *AnnotationUseCase {
	l := logger.With().Str("component", "AnnotationUseCase").Logger()
	return &AnnotationUseCase{
		jobs:          jobs,
		users:         users,
		store:         store,
		runner:        runner,
		archivePub:    archivePub,
		resultsBucket: resultsBucket,
		keyPrefix:     keyPrefix,
		scratchDir:    scratchDir,
		log:           &l,
	}
}

// HandleSubmission processes one submission message. The message is only
// acknowledged (ResultOK) once the subprocess has been launched; a failed
// download leaves the message for redelivery.
func (uc *AnnotationUseCase) HandleSubmission(ctx context.Context, body []byte) Result {
	var ev model.SubmissionEvent
	if err := model.DecodeEvent(body, &ev); err != nil {
		uc.log.Error().Err(err).Msg("malformed submission message")
		return ResultDrop
	}
	if err := ev.Validate(); err != nil {
		uc.log.Error().Err(err).Msg("invalid submission message")
		return ResultDrop
	}
	log := uc.log.With().Str("job_id", ev.JobID).Str("user_id", ev.UserID).Logger()

	// Duplicate deliveries must not relaunch the subprocess, so the status
	// is checked before launching, not only via the conditional write.
	rec, err := uc.jobs.FindByID(ctx, ev.JobID)
	if err != nil {
		if err == domain.ErrNotFound {
			log.Error().Msg("submission for unknown job record")
			return ResultDrop
		}
		log.Error().Err(err).Msg("job record lookup failed")
		return ResultRetry
	}
	if rec.JobStatus != model.JobStatusPending {
		log.Info().Str("status", string(rec.JobStatus)).Msg("job already claimed, skipping duplicate delivery")
		return ResultOK
	}

	if err := os.MkdirAll(uc.scratchDir, 0o755); err != nil {
		log.Error().Err(err).Msg("scratch dir unavailable")
		return ResultRetry
	}
	inputPath := filepath.Join(uc.scratchDir, filepath.Base(ev.S3KeyInputFile))
	if err := uc.store.Download(ctx, ev.S3InputsBucket, ev.S3KeyInputFile, inputPath); err != nil {
		log.Error().Err(err).Str("key", ev.S3KeyInputFile).Msg("input download failed")
		return ResultRetry
	}

	proc, err := uc.runner.Start(ctx, inputPath, ev.JobID, ev.UserID)
	if err != nil {
		log.Error().Err(err).Msg("annotation subprocess launch failed")
		_ = os.Remove(inputPath)
		return ResultRetry
	}

	// Claim the job. A failed condition means another worker already holds
	// it; the subprocess is running either way, so the message is still
	// acknowledged to stop redelivery.
	if err := uc.jobs.MarkRunning(ctx, ev.JobID); err != nil {
		if err == domain.ErrConditionFailed {
			log.Warn().Msg("job not in PENDING, conditional transition skipped")
		} else {
			log.Error().Err(err).Msg("failed to mark job RUNNING")
		}
	}

	uc.wg.Add(1)
	go uc.finalize(ev, inputPath, proc)

	return ResultOK
}

// Drain blocks until all in-flight finalize goroutines have finished.
func (uc *AnnotationUseCase) Drain() {
	uc.wg.Wait()
}

// finalize is the post-subprocess phase: upload the two artifacts, record
// result locations and completion time, route free-tier results to
// archival, and always delete the local scratch copies.
func (uc *AnnotationUseCase) finalize(ev model.SubmissionEvent, inputPath string, proc adapter.Process) {
	defer uc.wg.Done()

	// Detached from the receive loop: the subprocess is not cancellable and
	// its results should be persisted even during shutdown.
	ctx := context.Background()
	log := uc.log.With().Str("job_id", ev.JobID).Str("user_id", ev.UserID).Logger()

	resultPath := filepath.Join(filepath.Dir(inputPath), model.ResultFileName(filepath.Base(inputPath)))
	logPath := filepath.Join(filepath.Dir(inputPath), model.LogFileName(filepath.Base(inputPath)))
	defer func() {
		// Scratch space is bounded regardless of upload outcome.
		for _, p := range []string{inputPath, resultPath, logPath} {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				log.Warn().Err(err).Str("path", p).Msg("scratch cleanup failed")
			}
		}
	}()

	if err := proc.Wait(); err != nil {
		metrics.IncAnnotation("failed")
		log.Error().Err(err).Msg("annotation subprocess failed")
		return
	}

	// Uploaded names derive from the job-qualified object name, never the
	// bare input file name: two jobs for the same file must not share a key.
	baseName := filepath.Base(ev.S3KeyInputFile)
	resultKey := model.ResultKey(uc.keyPrefix, ev.UserID, model.ResultFileName(baseName))
	logKey := model.ResultKey(uc.keyPrefix, ev.UserID, model.LogFileName(baseName))

	if err := uc.store.Upload(ctx, resultPath, uc.resultsBucket, resultKey); err != nil {
		metrics.IncAnnotation("failed")
		log.Error().Err(err).Str("key", resultKey).Msg("result upload failed")
		return
	}
	if err := uc.store.Upload(ctx, logPath, uc.resultsBucket, logKey); err != nil {
		metrics.IncAnnotation("failed")
		log.Error().Err(err).Str("key", logKey).Msg("log upload failed")
		return
	}

	completeTime := time.Now().Unix()
	if err := uc.jobs.MarkCompleted(ctx, ev.JobID, uc.resultsBucket, resultKey, logKey, completeTime); err != nil {
		metrics.IncAnnotation("failed")
		log.Error().Err(err).Msg("failed to mark job COMPLETED")
		return
	}
	metrics.IncAnnotation("completed")
	log.Info().Str("result_key", resultKey).Msg("job completed")

	uc.routeArchival(ctx, ev, resultKey, &log)
}

// routeArchival publishes an archive request when the owning user is still
// on the free tier. Publishing failures are logged only; the result simply
// stays hot.
func (uc *AnnotationUseCase) routeArchival(ctx context.Context, ev model.SubmissionEvent, resultKey string, log *zerolog.Logger) {
	profile, err := uc.users.FindByID(ctx, ev.UserID)
	if err != nil {
		log.Error().Err(err).Msg("user profile lookup failed, archival not routed")
		return
	}
	if !profile.FreeTier() {
		return
	}

	req := model.ArchiveEvent{
		JobID:        ev.JobID,
		UserID:       ev.UserID,
		S3BucketName: uc.resultsBucket,
		ResultsS3Key: resultKey,
	}
	body, err := json.Marshal(req)
	if err != nil {
		log.Error().Err(err).Msg("archive event marshal failed")
		return
	}
	if err := uc.archivePub.Publish(ctx, body, "Archive Request"); err != nil {
		log.Error().Err(err).Msg("archive request publish failed")
		return
	}
	log.Info().Msg("archive request enqueued")
}
