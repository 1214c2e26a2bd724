package repository

import (
	"context"

	"genomics-annotation-service/internal/domain/model"
)

// JobRepository is the job record store. Every status-bearing mutation other
// than MarkRunning is made by exactly one worker type, so only MarkRunning
// carries a compare-and-set guard.
type JobRepository interface {
	Create(ctx context.Context, rec *model.JobRecord) error
	FindByID(ctx context.Context, jobID string) (*model.JobRecord, error)
	// ListByUser queries the user_id secondary index.
	ListByUser(ctx context.Context, userID string) ([]*model.JobRecord, error)

	// MarkRunning transitions PENDING -> RUNNING. Returns
	// domain.ErrConditionFailed when the record is not PENDING.
	MarkRunning(ctx context.Context, jobID string) error

	// MarkCompleted records the result locations and completion time and
	// transitions the record to COMPLETED.
	MarkCompleted(ctx context.Context, jobID, resultsBucket, resultKey, logKey string, completeTime int64) error

	// MarkArchived stores the cold-tier archive id and transitions the
	// record to ARCHIVED.
	MarkArchived(ctx context.Context, jobID, archiveID string) error

	// MarkRestoring transitions the record to RESTORING.
	MarkRestoring(ctx context.Context, jobID string) error

	// MarkRestored transitions the record back to COMPLETED and removes the
	// archive id.
	MarkRestored(ctx context.Context, jobID string) error
}
