// File: internal/domain/model/event.go
package model

import (
	"encoding/json"
	"fmt"

	"genomics-annotation-service/internal/domain"
)

// SubmissionEvent announces a freshly created PENDING job record. Its shape
// is the record itself; the annotation worker only needs the identifiers and
// the input location.
type SubmissionEvent struct {
	JobID          string    `json:"job_id"`
	UserID         string    `json:"user_id"`
	InputFileName  string    `json:"input_file_name"`
	S3InputsBucket string    `json:"s3_inputs_bucket"`
	S3KeyInputFile string    `json:"s3_key_input_file"`
	SubmitTime     int64     `json:"submit_time"`
	JobStatus      JobStatus `json:"job_status"`
}

// Validate checks the fields the annotation worker cannot do without.
func (e *SubmissionEvent) Validate() error {
	if e.JobID == "" || e.UserID == "" {
		return fmt.Errorf("submission event missing job_id or user_id")
	}
	if e.S3InputsBucket == "" || e.S3KeyInputFile == "" {
		return fmt.Errorf("submission event missing input location")
	}
	return nil
}

// ArchiveEvent asks the archival worker to move a completed result into the
// cold tier. The user's tier is re-checked at processing time, so the event
// deliberately carries no role information.
type ArchiveEvent struct {
	JobID        string `json:"job_id"`
	UserID       string `json:"user_id"`
	S3BucketName string `json:"s3_bucket_name"`
	ResultsS3Key string `json:"results_s3_key"`
}

func (e *ArchiveEvent) Validate() error {
	if e.JobID == "" || e.UserID == "" {
		return fmt.Errorf("archive event missing job_id or user_id")
	}
	if e.S3BucketName == "" || e.ResultsS3Key == "" {
		return fmt.Errorf("archive event missing result location")
	}
	return nil
}

// ThawStatus is the wire discriminator for the two thaw phases.
type ThawStatus string

const (
	ThawStatusStarted    ThawStatus = "STARTED"
	ThawStatusInProgress ThawStatus = "IN PROGRESS"
)

// ThawEvent drives the two-phase retrieval state machine. Phase transitions
// are made by republishing the event with the next status rather than by
// blocking in place, so the coordinator stays stateless.
type ThawEvent struct {
	ThawStatus      ThawStatus `json:"thaw_status"`
	JobID           string     `json:"job_id"`
	UserID          string     `json:"user_id"`
	S3ResultsBucket string     `json:"s3_results_bucket"`
	S3KeyResultFile string     `json:"s3_key_result_file"`

	// Set while STARTED; consumed by retrieval initiation.
	ResultsFileArchiveID string `json:"results_file_archive_id,omitempty"`

	// Set when republished as IN PROGRESS; identifies the retrieval job.
	ThawID string `json:"thaw_id,omitempty"`
}

// ThawPhase is the decoded, validated form of a ThawEvent. Handling code
// switches on the concrete type, which keeps the two phases exhaustive
// instead of re-checking loosely typed fields.
type ThawPhase interface {
	isThawPhase()
}

// ThawStarted carries everything needed to initiate a retrieval.
type ThawStarted struct {
	ArchiveID string
}

// ThawInProgress carries the retrieval job to poll for completion.
type ThawInProgress struct {
	ThawID string
}

func (ThawStarted) isThawPhase()    {}
func (ThawInProgress) isThawPhase() {}

// Phase validates the event against its declared status and returns the
// corresponding tagged variant.
func (e *ThawEvent) Phase() (ThawPhase, error) {
	if e.JobID == "" || e.UserID == "" {
		return nil, fmt.Errorf("thaw event missing job_id or user_id")
	}
	switch e.ThawStatus {
	case ThawStatusStarted:
		if e.ResultsFileArchiveID == "" {
			return nil, fmt.Errorf("thaw STARTED event missing results_file_archive_id")
		}
		return ThawStarted{ArchiveID: e.ResultsFileArchiveID}, nil
	case ThawStatusInProgress:
		if e.ThawID == "" {
			return nil, fmt.Errorf("thaw IN PROGRESS event missing thaw_id")
		}
		return ThawInProgress{ThawID: e.ThawID}, nil
	default:
		return nil, fmt.Errorf("unknown thaw_status %q", e.ThawStatus)
	}
}

// InProgress returns a copy of the event advanced to the IN PROGRESS phase
// with the retrieval job attached.
func (e ThawEvent) InProgress(thawID string) ThawEvent {
	e.ThawStatus = ThawStatusInProgress
	e.ThawID = thawID
	return e
}

// DecodeEvent unmarshals a channel message body into the given event type.
// A body that is not valid JSON yields domain.ErrMalformedMessage so
// handlers can drop it rather than retry it.
func DecodeEvent(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedMessage, err)
	}
	return nil
}
