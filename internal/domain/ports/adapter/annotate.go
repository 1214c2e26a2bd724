package adapter

import "context"

// Process is a launched annotation run. Wait blocks until the external
// process exits and returns its terminal error, if any.
type Process interface {
	Wait() error
}

// AnnotationRunner launches the opaque annotation step as an independent
// process. The contract is file in, two files out: for input path p the run
// produces the annotated file and the count log next to p, with names
// derived by model.ResultFileName and model.LogFileName.
type AnnotationRunner interface {
	Start(ctx context.Context, inputPath, jobID, userID string) (Process, error)
}
