package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESDispatcher delivers mail through Amazon SES.
type SESDispatcher struct {
	client *ses.Client
	sender string
}

// NewSESDispatcher builds a dispatcher from the ambient AWS credential
// chain. sender must be a SES-verified address.
func NewSESDispatcher(ctx context.Context, region, sender string) (*SESDispatcher, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SESDispatcher{client: ses.NewFromConfig(cfg), sender: sender}, nil
}

func (d *SESDispatcher) Send(ctx context.Context, msg Message) error {
	body := &types.Body{}
	if msg.BodyText != "" {
		body.Text = &types.Content{Data: aws.String(msg.BodyText)}
	}
	if msg.BodyHTML != "" {
		body.Html = &types.Content{Data: aws.String(msg.BodyHTML)}
	}

	_, err := d.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(d.sender),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject)},
			Body:    body,
		},
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}
