package notify

import (
	"context"

	"github.com/slack-go/slack"

	"shop-monitor/pkg/models"
)

// SlackPoster posts notification batches to one channel with link and media
// previews disabled.
type SlackPoster struct {
	client    *slack.Client
	channelID string
}

func NewSlackPoster(token, channelID string) *SlackPoster {
	return &SlackPoster{client: slack.New(token), channelID: channelID}
}

// Post sends one batch. The summary is the fallback text Slack shows in
// notifications; the blocks carry the actual content. A platform-level
// rejection (ok: false) comes back as an error naming Slack's error string.
func (p *SlackPoster) Post(ctx context.Context, summary string, blocks []slack.Block) error {
	_, _, err := p.client.PostMessageContext(ctx, p.channelID,
		slack.MsgOptionText(summary, false),
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionDisableLinkUnfurl(),
		slack.MsgOptionDisableMediaUnfurl(),
	)
	if err != nil {
		return &models.TransportError{Op: "slack post", Err: err}
	}
	return nil
}
