package config

import (
	"github.com/urfave/cli/v3"

	"github.com/kuroba-ex/shipper/pkg/domain/interfaces"
	slackinfra "github.com/kuroba-ex/shipper/pkg/infra/slack"
)

// Slack holds release announcement configuration
type Slack struct {
	WebhookURL string `masq:"secret"`
	Channel    string
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL to announce releases (disabled if empty)",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars("SHIPPER_SLACK_WEBHOOK_URL"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel overriding the webhook default",
			Destination: &c.Channel,
			Sources:     cli.EnvVars("SHIPPER_SLACK_CHANNEL"),
		},
	}
}

// NewNotifier returns nil when no webhook is configured
func (c *Slack) NewNotifier() interfaces.Notifier {
	if c.WebhookURL == "" {
		return nil
	}

	var opts []slackinfra.Option
	if c.Channel != "" {
		opts = append(opts, slackinfra.WithChannel(c.Channel))
	}
	return slackinfra.New(c.WebhookURL, opts...)
}
