package model

// JobStatus is the persisted lifecycle state of an annotation job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusArchived  JobStatus = "ARCHIVED"
	JobStatusRestoring JobStatus = "RESTORING"
)

// JobRecord is the single source of truth for one annotation request.
// It is created once by the submission boundary and mutated only by the
// workers, each of which owns a disjoint set of fields.
type JobRecord struct {
	JobID          string    `json:"job_id" dynamodbav:"job_id"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	InputFileName  string    `json:"input_file_name" dynamodbav:"input_file_name"`
	S3InputsBucket string    `json:"s3_inputs_bucket" dynamodbav:"s3_inputs_bucket"`
	S3KeyInputFile string    `json:"s3_key_input_file" dynamodbav:"s3_key_input_file"`
	SubmitTime     int64     `json:"submit_time" dynamodbav:"submit_time"`
	JobStatus      JobStatus `json:"job_status" dynamodbav:"job_status"`

	// Set once the job reaches COMPLETED.
	CompleteTime    int64  `json:"complete_time,omitempty" dynamodbav:"complete_time,omitempty"`
	S3ResultsBucket string `json:"s3_results_bucket,omitempty" dynamodbav:"s3_results_bucket,omitempty"`
	S3KeyResultFile string `json:"s3_key_result_file,omitempty" dynamodbav:"s3_key_result_file,omitempty"`
	S3KeyLogFile    string `json:"s3_key_log_file,omitempty" dynamodbav:"s3_key_log_file,omitempty"`

	// Present only while the result lives in the cold tier. Its presence is
	// the signal that the result is archived; it is removed on restore.
	ResultsFileArchiveID string `json:"results_file_archive_id,omitempty" dynamodbav:"results_file_archive_id,omitempty"`
}

// Archived reports whether the result file currently lives in the cold tier.
func (r *JobRecord) Archived() bool {
	return r.ResultsFileArchiveID != ""
}
