package snstopic

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Publisher adapts one SNS topic to the publisher port. The topic ARN is
// bound at construction so use cases never carry infrastructure names.
type Publisher struct {
	client *sns.Client
	topic  string
}

func New(cfg aws.Config, topicARN string) *Publisher {
	return &Publisher{client: sns.NewFromConfig(cfg), topic: topicARN}
}

func (p *Publisher) Publish(ctx context.Context, body []byte, subject string) error {
	_, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topic),
		Message:  aws.String(string(body)),
		Subject:  aws.String(subject),
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}
