// File: internal/infra/aws/dynamostore/jobs_repo.go
package dynamostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"genomics-annotation-service/internal/domain"
	"genomics-annotation-service/internal/domain/model"
)

// JobRepo is the DynamoDB-backed job record store. The table is keyed by
// job_id with a GSI on user_id for the per-user listing.
type JobRepo struct {
	client    *dynamodb.Client
	table     string
	userIndex string
}

func NewJobRepo(cfg aws.Config, table, userIndex string) *JobRepo {
	return &JobRepo{client: dynamodb.NewFromConfig(cfg), table: table, userIndex: userIndex}
}

func (r *JobRepo) Create(ctx context.Context, rec *model.JobRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal job record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamodb put job %s: %w", rec.JobID, err)
	}
	return nil
}

func (r *JobRepo) FindByID(ctx context.Context, jobID string) (*model.JobRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       jobKey(jobID),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb get job %s: %w", jobID, err)
	}
	if len(out.Item) == 0 {
		return nil, domain.ErrNotFound
	}
	var rec model.JobRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal job record: %w", err)
	}
	return &rec, nil
}

func (r *JobRepo) ListByUser(ctx context.Context, userID string) ([]*model.JobRecord, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		IndexName:              aws.String(r.userIndex),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb query jobs for user %s: %w", userID, err)
	}
	recs := make([]*model.JobRecord, 0, len(out.Items))
	for _, item := range out.Items {
		var rec model.JobRecord
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal job record: %w", err)
		}
		recs = append(recs, &rec)
	}
	return recs, nil
}

// MarkRunning performs the one contended transition with a compare-and-set
// guard on the stored status.
func (r *JobRepo) MarkRunning(ctx context.Context, jobID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.table),
		Key:                 jobKey(jobID),
		UpdateExpression:    aws.String("SET job_status = :newStatus"),
		ConditionExpression: aws.String("job_status = :expectedStatus"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":newStatus":      &types.AttributeValueMemberS{Value: string(model.JobStatusRunning)},
			":expectedStatus": &types.AttributeValueMemberS{Value: string(model.JobStatusPending)},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return domain.ErrConditionFailed
		}
		return fmt.Errorf("dynamodb mark job %s running: %w", jobID, err)
	}
	return nil
}

func (r *JobRepo) MarkCompleted(ctx context.Context, jobID, resultsBucket, resultKey, logKey string, completeTime int64) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key:       jobKey(jobID),
		UpdateExpression: aws.String(
			"SET s3_results_bucket = :resBucket, s3_key_result_file = :resKey, " +
				"s3_key_log_file = :logKey, complete_time = :compTime, job_status = :status"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":resBucket": &types.AttributeValueMemberS{Value: resultsBucket},
			":resKey":    &types.AttributeValueMemberS{Value: resultKey},
			":logKey":    &types.AttributeValueMemberS{Value: logKey},
			":compTime":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", completeTime)},
			":status":    &types.AttributeValueMemberS{Value: string(model.JobStatusCompleted)},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamodb mark job %s completed: %w", jobID, err)
	}
	return nil
}

func (r *JobRepo) MarkArchived(ctx context.Context, jobID, archiveID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.table),
		Key:              jobKey(jobID),
		UpdateExpression: aws.String("SET results_file_archive_id = :archiveID, job_status = :status"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":archiveID": &types.AttributeValueMemberS{Value: archiveID},
			":status":    &types.AttributeValueMemberS{Value: string(model.JobStatusArchived)},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamodb mark job %s archived: %w", jobID, err)
	}
	return nil
}

func (r *JobRepo) MarkRestoring(ctx context.Context, jobID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.table),
		Key:              jobKey(jobID),
		UpdateExpression: aws.String("SET job_status = :status"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(model.JobStatusRestoring)},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamodb mark job %s restoring: %w", jobID, err)
	}
	return nil
}

func (r *JobRepo) MarkRestored(ctx context.Context, jobID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.table),
		Key:              jobKey(jobID),
		UpdateExpression: aws.String("SET job_status = :status REMOVE results_file_archive_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(model.JobStatusCompleted)},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamodb mark job %s restored: %w", jobID, err)
	}
	return nil
}

func jobKey(jobID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"job_id": &types.AttributeValueMemberS{Value: jobID},
	}
}
