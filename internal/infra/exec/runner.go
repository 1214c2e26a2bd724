// File: internal/infra/exec/runner.go
package exec

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/rs/zerolog"

	"genomics-annotation-service/internal/domain/ports/adapter"
)

// Runner launches the AnnTools driver as an independent OS process:
//
//	<runner> <input path> <job id> <user id>
//
// There is no cooperative cancellation: once launched the process runs to
// completion, matching the pipeline's ownership model (the scratch files
// belong to the run until Wait returns).
type Runner struct {
	path string
	log  *zerolog.Logger
}

func NewRunner(path string, logger *zerolog.Logger) *Runner {
	l := logger.With().Str("component", "AnnotationRunner").Logger()
	return &Runner{path: path, log: &l}
}

func (r *Runner) Start(ctx context.Context, inputPath, jobID, userID string) (adapter.Process, error) {
	// Deliberately not exec.CommandContext: the subprocess must not be
	// killed by the receive loop's context.
	cmd := exec.Command(r.path, inputPath, jobID, userID)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", r.path, err)
	}
	r.log.Info().Str("job_id", jobID).Int("pid", cmd.Process.Pid).Msg("annotation subprocess launched")
	return &process{cmd: cmd}, nil
}

type process struct {
	cmd *exec.Cmd
}

func (p *process) Wait() error {
	return p.cmd.Wait()
}
