package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"entitlement-service/internal/infra/notify"
	appconfig "entitlement-service/internal/pkg/config"
	"entitlement-service/internal/worker/dispatcher"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/fx"
)

const defaultAWSLoadTimeout = 10 * time.Second

var AWSModule = fx.Module("aws",
	fx.Provide(
		NewAWSConfig,
		fx.Annotate(
			NewSESMailer,
			fx.As(new(dispatcher.Mailer)),
		),
		fx.Annotate(
			NewSNSPublisher,
			fx.As(new(dispatcher.Publisher)),
		),
	),
)

// NewAWSConfig returns nil when delivery is disabled, so local runs need no credentials.
func NewAWSConfig(cfg appconfig.Config) (*aws.Config, error) {
	if cfg.AWS.DisableDeliver {
		slog.Warn("AWS delivery is disabled, notifications are only logged")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultAWSLoadTimeout)
	defer cancel()

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, err
	}
	return &awsCfg, nil
}

func NewSESMailer(awsCfg *aws.Config, cfg appconfig.Config) *notify.SESMailer {
	if awsCfg == nil {
		return notify.NewSESMailer(nil, cfg.AWS.SESSender, true)
	}
	return notify.NewSESMailer(ses.NewFromConfig(*awsCfg), cfg.AWS.SESSender, false)
}

func NewSNSPublisher(awsCfg *aws.Config, cfg appconfig.Config) *notify.SNSPublisher {
	if awsCfg == nil {
		return notify.NewSNSPublisher(nil, cfg.AWS.SNSTopicARN, true)
	}
	return notify.NewSNSPublisher(sns.NewFromConfig(*awsCfg), cfg.AWS.SNSTopicARN, false)
}
