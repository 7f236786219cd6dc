package notify

import (
	"context"
	"log/slog"

	"entitlement-service/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the subset of the SES client the mailer calls.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type Email struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

type SESMailer struct {
	client   SESAPI
	sender   string
	disabled bool
}

// NewSESMailer returns a mailer that only logs when disabled is set, for
// local runs without AWS credentials.
func NewSESMailer(client SESAPI, sender string, disabled bool) *SESMailer {
	return &SESMailer{client: client, sender: sender, disabled: disabled}
}

func (m *SESMailer) Send(ctx context.Context, email Email) error {
	if email.To == "" {
		return errs.New("email recipient is empty")
	}
	if m.disabled || m.client == nil {
		slog.Info("email delivery disabled, skipping", "to", email.To, "subject", email.Subject)
		return nil
	}

	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{email.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(email.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(email.HTMLBody), Charset: aws.String("UTF-8")},
				Text: &types.Content{Data: aws.String(email.TextBody), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(m.sender),
	})
	if err != nil {
		return errs.Wrap(err, "ses send email")
	}
	return nil
}
