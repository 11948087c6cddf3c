package slack

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/kuroba-ex/shipper/pkg/domain/interfaces"
	"github.com/kuroba-ex/shipper/pkg/domain/model"
)

// Notifier posts release announcements to a Slack incoming webhook
type Notifier struct {
	webhookURL string
	channel    string
	httpClient *http.Client
}

var _ interfaces.Notifier = (*Notifier)(nil)

// Option configures Notifier
type Option func(*Notifier)

// WithChannel overrides the channel configured for the webhook
func WithChannel(channel string) Option {
	return func(n *Notifier) {
		n.channel = channel
	}
}

// WithHTTPClient sets the HTTP client used to call the webhook
func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) {
		n.httpClient = c
	}
}

// New creates a Notifier for webhookURL
func New(webhookURL string, opts ...Option) *Notifier {
	n := &Notifier{
		webhookURL: webhookURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify posts a message announcing release
func (n *Notifier) Notify(ctx context.Context, release *model.Release) error {
	msg := &slack.WebhookMessage{
		Channel: n.channel,
		Text:    formatMessage(release),
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.httpClient, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack webhook", goerr.V("tag", release.TagName))
	}
	return nil
}

func formatMessage(release *model.Release) string {
	var sb strings.Builder

	if release.HTMLURL != "" {
		sb.WriteString(fmt.Sprintf("Released %s: %s\n", release.TagName, release.HTMLURL))
	} else {
		sb.WriteString(fmt.Sprintf("Released %s\n", release.TagName))
	}

	if release.Body != "" {
		sb.WriteString("\n")
		sb.WriteString(release.Body)
	}

	return sb.String()
}
