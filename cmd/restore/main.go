// File: cmd/restore/main.go
//
// Restore function entrypoint, deployed as an AWS Lambda. Invoked once per
// completed thaw by the thaw coordinator.
package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"genomics-annotation-service/internal/config"
	"genomics-annotation-service/internal/domain/ports/adapter"
	"genomics-annotation-service/internal/infra/aws/awscfg"
	"genomics-annotation-service/internal/infra/aws/dynamostore"
	"genomics-annotation-service/internal/infra/aws/glaciervault"
	"genomics-annotation-service/internal/infra/aws/s3store"
	"genomics-annotation-service/internal/infra/logging"
	"genomics-annotation-service/internal/usecase"
)

func main() {
	ctx := context.Background()

	// Lambdas are configured by environment, not a config file.
	region := os.Getenv("AWS_REGION")
	table := os.Getenv("ANNOTATIONS_TABLE")
	userIndex := os.Getenv("ANNOTATIONS_USER_INDEX")
	vaultName := os.Getenv("GLACIER_VAULT")
	if table == "" || vaultName == "" {
		log.Fatal("ANNOTATIONS_TABLE and GLACIER_VAULT are required")
	}
	if userIndex == "" {
		userIndex = "user_id-index"
	}

	logger := logging.New(config.LogConfig{Level: "info", Format: "json"})

	awsCfg, err := awscfg.Load(ctx, region)
	if err != nil {
		log.Fatalf("aws config: %v", err)
	}
	jobs := dynamostore.NewJobRepo(awsCfg, table, userIndex)
	store := s3store.New(awsCfg)
	vault := glaciervault.New(awsCfg, vaultName)
	uc := usecase.NewRestoreUseCase(jobs, store, vault, logger)

	lambda.Start(func(ctx context.Context, req adapter.RestoreRequest) (adapter.RestoreResult, error) {
		if err := uc.Restore(ctx, req); err != nil {
			logger.Error().Err(err).Str("job_id", req.JobID).Msg("restore failed")
			return adapter.RestoreResult{Code: 500, Message: err.Error()}, err
		}
		return adapter.RestoreResult{Code: 200, Message: "restore complete"}, nil
	})
}
