// File: internal/infra/aws/glaciervault/vault.go
package glaciervault

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glacier"
	"github.com/aws/aws-sdk-go-v2/service/glacier/types"

	"genomics-annotation-service/internal/domain"
	"genomics-annotation-service/internal/domain/ports/adapter"
)

// Vault adapts a Glacier vault to the cold archival tier port. Retrieval is
// Glacier's archive-retrieval job protocol: initiate, describe until
// Completed, then fetch the job output.
type Vault struct {
	client *glacier.Client
	vault  string
}

func New(cfg aws.Config, vaultName string) *Vault {
	return &Vault{client: glacier.NewFromConfig(cfg), vault: vaultName}
}

func (v *Vault) Upload(ctx context.Context, data []byte, description string) (string, error) {
	out, err := v.client.UploadArchive(ctx, &glacier.UploadArchiveInput{
		AccountId:          aws.String("-"),
		VaultName:          aws.String(v.vault),
		ArchiveDescription: aws.String(description),
		Body:               bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("glacier upload: %w", err)
	}
	return aws.ToString(out.ArchiveId), nil
}

func (v *Vault) InitiateRetrieval(ctx context.Context, archiveID string, tier adapter.RetrievalTier) (string, error) {
	out, err := v.client.InitiateJob(ctx, &glacier.InitiateJobInput{
		AccountId: aws.String("-"),
		VaultName: aws.String(v.vault),
		JobParameters: &types.JobParameters{
			Type:      aws.String("archive-retrieval"),
			ArchiveId: aws.String(archiveID),
			Tier:      aws.String(string(tier)),
		},
	})
	if err != nil {
		var ice *types.InsufficientCapacityException
		if errors.As(err, &ice) {
			return "", domain.ErrInsufficientCapacity
		}
		return "", fmt.Errorf("glacier initiate retrieval: %w", err)
	}
	return aws.ToString(out.JobId), nil
}

func (v *Vault) RetrievalComplete(ctx context.Context, retrievalID string) (bool, error) {
	out, err := v.client.DescribeJob(ctx, &glacier.DescribeJobInput{
		AccountId: aws.String("-"),
		VaultName: aws.String(v.vault),
		JobId:     aws.String(retrievalID),
	})
	if err != nil {
		return false, fmt.Errorf("glacier describe job %s: %w", retrievalID, err)
	}
	return out.Completed, nil
}

func (v *Vault) RetrievalOutput(ctx context.Context, retrievalID string) (io.ReadCloser, error) {
	out, err := v.client.GetJobOutput(ctx, &glacier.GetJobOutputInput{
		AccountId: aws.String("-"),
		VaultName: aws.String(v.vault),
		JobId:     aws.String(retrievalID),
	})
	if err != nil {
		return nil, fmt.Errorf("glacier job output %s: %w", retrievalID, err)
	}
	return out.Body, nil
}

func (v *Vault) DeleteArchive(ctx context.Context, archiveID string) error {
	_, err := v.client.DeleteArchive(ctx, &glacier.DeleteArchiveInput{
		AccountId: aws.String("-"),
		VaultName: aws.String(v.vault),
		ArchiveId: aws.String(archiveID),
	})
	if err != nil {
		return fmt.Errorf("glacier delete archive: %w", err)
	}
	return nil
}
