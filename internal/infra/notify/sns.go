package notify

import (
	"context"
	"log/slog"

	"entitlement-service/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSPublisher struct {
	client   SNSAPI
	topicARN string
	disabled bool
}

func NewSNSPublisher(client SNSAPI, topicARN string, disabled bool) *SNSPublisher {
	return &SNSPublisher{client: client, topicARN: topicARN, disabled: disabled}
}

// Publish sends message to the configured topic with eventType as a message
// attribute so subscribers can filter on it.
func (p *SNSPublisher) Publish(ctx context.Context, eventType string, message []byte) error {
	if p.topicARN == "" {
		return errs.New("sns topic is not configured")
	}
	if p.disabled || p.client == nil {
		slog.Info("event publishing disabled, skipping", "event_type", eventType)
		return nil
	}

	_, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(message)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(eventType),
			},
		},
	})
	if err != nil {
		return errs.Wrap(err, "sns publish")
	}
	return nil
}
