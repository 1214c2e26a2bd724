// File: internal/usecase/submission_uc.go
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"genomics-annotation-service/internal/domain"
	"genomics-annotation-service/internal/domain/model"
	"genomics-annotation-service/internal/domain/ports/adapter"
	"genomics-annotation-service/internal/domain/ports/repository"
)

// SubmissionUseCase is the input boundary of the pipeline: it stages an
// input file in hot storage, creates the PENDING job record, and announces
// the job on the submission channel. It also carries the tier-upgrade flow
// that kicks off thawing of a user's archived results.
type SubmissionUseCase struct {
	jobs    repository.JobRepository
	users   repository.UserProfileRepository
	store   adapter.ObjectStore
	subPub  adapter.Publisher
	thawPub adapter.Publisher

	inputsBucket string
	keyPrefix    string
	log          *zerolog.Logger
}

func NewSubmissionUseCase(
	jobs repository.JobRepository,
	users repository.UserProfileRepository,
	store adapter.ObjectStore,
	subPub adapter.Publisher,
	thawPub adapter.Publisher,
	inputsBucket, keyPrefix string,
	logger *zerolog.Logger,
) *SubmissionUseCase {
	l := logger.With().Str("component", "SubmissionUseCase").Logger()
	return &SubmissionUseCase{
		jobs:         jobs,
		users:        users,
		store:        store,
		subPub:       subPub,
		thawPub:      thawPub,
		inputsBucket: inputsBucket,
		keyPrefix:    keyPrefix,
		log:          &l,
	}
}

// Submit uploads a local input file under the user's prefix, persists the
// PENDING record, and publishes the submission event. Returns the job id.
func (uc *SubmissionUseCase) Submit(ctx context.Context, userID, inputPath string) (string, error) {
	if userID == "" || inputPath == "" {
		return "", fmt.Errorf("submit: %w: user id and input path are required", domain.ErrInvalidArgument)
	}
	jobID := uuid.NewString()
	fileName := filepath.Base(inputPath)
	// Keys look like "<prefix><user_id>/<job_id>~<file name>" so the job id
	// is recoverable from the object key alone.
	key := uc.keyPrefix + userID + "/" + jobID + "~" + fileName

	if err := uc.store.Upload(ctx, inputPath, uc.inputsBucket, key); err != nil {
		return "", fmt.Errorf("upload input: %w", err)
	}

	rec := &model.JobRecord{
		JobID:          jobID,
		UserID:         userID,
		InputFileName:  fileName,
		S3InputsBucket: uc.inputsBucket,
		S3KeyInputFile: key,
		SubmitTime:     time.Now().Unix(),
		JobStatus:      model.JobStatusPending,
	}
	if err := uc.jobs.Create(ctx, rec); err != nil {
		return "", fmt.Errorf("create job record: %w", err)
	}

	ev := model.SubmissionEvent{
		JobID:          rec.JobID,
		UserID:         rec.UserID,
		InputFileName:  rec.InputFileName,
		S3InputsBucket: rec.S3InputsBucket,
		S3KeyInputFile: rec.S3KeyInputFile,
		SubmitTime:     rec.SubmitTime,
		JobStatus:      rec.JobStatus,
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return "", fmt.Errorf("marshal submission event: %w", err)
	}
	if err := uc.subPub.Publish(ctx, body, "Job Submission"); err != nil {
		return "", fmt.Errorf("publish submission event: %w", err)
	}

	uc.log.Info().Str("job_id", jobID).Str("user_id", userID).Str("key", key).Msg("job submitted")
	return jobID, nil
}

// Upgrade promotes a user to the premium tier and requests a thaw for each
// of their archived results. Returns the number of thaw events published.
func (uc *SubmissionUseCase) Upgrade(ctx context.Context, userID string) (int, error) {
	if err := uc.users.UpdateRole(ctx, userID, model.RolePremium); err != nil {
		return 0, fmt.Errorf("update role: %w", err)
	}

	recs, err := uc.jobs.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list jobs: %w", err)
	}

	published := 0
	for _, rec := range recs {
		if !rec.Archived() {
			continue
		}
		ev := model.ThawEvent{
			ThawStatus:           model.ThawStatusStarted,
			JobID:                rec.JobID,
			UserID:               rec.UserID,
			S3ResultsBucket:      rec.S3ResultsBucket,
			S3KeyResultFile:      rec.S3KeyResultFile,
			ResultsFileArchiveID: rec.ResultsFileArchiveID,
		}
		body, err := json.Marshal(ev)
		if err != nil {
			return published, fmt.Errorf("marshal thaw event: %w", err)
		}
		if err := uc.thawPub.Publish(ctx, body, "Thaw Request"); err != nil {
			return published, fmt.Errorf("publish thaw event for job %s: %w", rec.JobID, err)
		}
		published++
	}

	uc.log.Info().Str("user_id", userID).Int("thaw_requests", published).Msg("user upgraded")
	return published, nil
}

// Status returns the job record for inspection.
func (uc *SubmissionUseCase) Status(ctx context.Context, jobID string) (*model.JobRecord, error) {
	return uc.jobs.FindByID(ctx, jobID)
}

// ResultURL returns a presigned download URL for a completed result. It is
// refused while the result lives in the cold tier.
func (uc *SubmissionUseCase) ResultURL(ctx context.Context, jobID string, expires time.Duration) (string, error) {
	rec, err := uc.jobs.FindByID(ctx, jobID)
	if err != nil {
		return "", err
	}
	if rec.Archived() || rec.JobStatus == model.JobStatusRestoring {
		return "", fmt.Errorf("job %s: result is archived, upgrade to premium to restore it", jobID)
	}
	if rec.JobStatus != model.JobStatusCompleted {
		return "", fmt.Errorf("job %s: not completed (status %s)", jobID, rec.JobStatus)
	}
	return uc.store.PresignGet(ctx, rec.S3ResultsBucket, rec.S3KeyResultFile, expires)
}
