package adapter

import (
	"context"
	"io"
)

// RetrievalTier is the speed/cost class of a cold-tier retrieval.
type RetrievalTier string

const (
	TierExpedited RetrievalTier = "Expedited"
	TierStandard  RetrievalTier = "Standard"
)

// ArchiveVault is the cold archival tier. Retrieval is a two-step protocol:
// InitiateRetrieval starts a slow asynchronous job, RetrievalComplete polls
// it, and RetrievalOutput streams the thawed bytes once it is done.
type ArchiveVault interface {
	// Upload stores an archive and returns its archive id.
	Upload(ctx context.Context, data []byte, description string) (string, error)

	// InitiateRetrieval requests a retrieval of the given archive at the
	// given tier. Returns domain.ErrInsufficientCapacity when the tier
	// cannot be satisfied under current load.
	InitiateRetrieval(ctx context.Context, archiveID string, tier RetrievalTier) (string, error)

	// RetrievalComplete reports whether the retrieval job has finished.
	RetrievalComplete(ctx context.Context, retrievalID string) (bool, error)

	// RetrievalOutput streams the output of a completed retrieval job.
	RetrievalOutput(ctx context.Context, retrievalID string) (io.ReadCloser, error)

	DeleteArchive(ctx context.Context, archiveID string) error
}
