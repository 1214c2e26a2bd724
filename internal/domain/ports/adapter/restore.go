package adapter

import "context"

// RestoreRequest is the payload handed to the restore function once a
// retrieval job completes.
type RestoreRequest struct {
	JobID           string `json:"job_id"`
	UserID          string `json:"user_id"`
	S3ResultsBucket string `json:"s3_results_bucket"`
	S3KeyResultFile string `json:"s3_key_result_file"`
	ArchiveID       string `json:"archive_id"`
	ThawID          string `json:"thaw_id"`
}

// RestoreResult is the restore function's reply, consumed only for logging.
type RestoreResult struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RestoreInvoker invokes the restore function exactly once per completed
// thaw. An invocation error must leave the triggering message in place so
// the completion check is retried.
type RestoreInvoker interface {
	Invoke(ctx context.Context, req RestoreRequest) (*RestoreResult, error)
}
