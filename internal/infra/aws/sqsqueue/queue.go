// File: internal/infra/aws/sqsqueue/queue.go
package sqsqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"genomics-annotation-service/internal/domain/ports/adapter"
)

// Queue adapts one SQS queue to the channel consumer port.
type Queue struct {
	client *sqs.Client
	url    string
}

func New(cfg aws.Config, queueURL string) *Queue {
	return &Queue{client: sqs.NewFromConfig(cfg), url: queueURL}
}

func (q *Queue) Receive(ctx context.Context, max int, wait time.Duration) ([]adapter.Message, error) {
	out, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.url),
		MaxNumberOfMessages: int32(max),
		WaitTimeSeconds:     int32(wait / time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("sqs receive: %w", err)
	}

	msgs := make([]adapter.Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		msgs = append(msgs, adapter.Message{
			ID:     aws.ToString(m.MessageId),
			Body:   UnwrapNotification([]byte(aws.ToString(m.Body))),
			Handle: aws.ToString(m.ReceiptHandle),
		})
	}
	return msgs, nil
}

func (q *Queue) Delete(ctx context.Context, handle string) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.url),
		ReceiptHandle: aws.String(handle),
	})
	if err != nil {
		return fmt.Errorf("sqs delete: %w", err)
	}
	return nil
}

// snsEnvelope is the notification wrapper SNS adds when raw message
// delivery is disabled on the subscription.
type snsEnvelope struct {
	Type    string `json:"Type"`
	Message string `json:"Message"`
}

// UnwrapNotification strips the SNS notification envelope when present and
// returns the inner message; bodies published directly to the queue (raw
// delivery) pass through untouched.
func UnwrapNotification(body []byte) []byte {
	var env snsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return body
	}
	if env.Type == "Notification" && env.Message != "" {
		return []byte(env.Message)
	}
	return body
}
