package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"nominator/contexts/beatmap-moderation/ranking-lifecycle/ports"

	"github.com/google/uuid"
)

const (
	colorProgress = 0x808080
	colorStatus   = 52478
)

type embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Author      *embedAuthor `json:"author,omitempty"`
	Image       *embedImage  `json:"image,omitempty"`
	Footer      *embedFooter `json:"footer,omitempty"`
}

type embedAuthor struct {
	Name    string `json:"name"`
	IconURL string `json:"icon_url,omitempty"`
	URL     string `json:"url,omitempty"`
}

type embedImage struct {
	URL string `json:"url"`
}

type embedFooter struct {
	Text string `json:"text"`
}

type payload struct {
	Embeds []embed `json:"embeds"`
}

// Discord posts transition announcements as webhook embeds. Nomination
// progress and qualification go to the qualified channel, everything else
// to the nomination channel; each falls back to the other when only one
// URL is configured. Delivery is best-effort and bounded by the client
// timeout.
type Discord struct {
	client        *http.Client
	nominationURL string
	qualifiedURL  string
	logger        *slog.Logger
}

func NewDiscord(nominationURL, qualifiedURL string, logger *slog.Logger) *Discord {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discord{
		client:        &http.Client{Timeout: 10 * time.Second},
		nominationURL: nominationURL,
		qualifiedURL:  qualifiedURL,
		logger:        logger,
	}
}

func (d *Discord) Send(ctx context.Context, notification ports.Notification) error {
	url := d.routeURL(notification.Kind)
	if url == "" {
		d.logger.Debug("webhook delivery skipped, no url configured",
			"event", "webhook_delivery_skipped",
			"module", "beatmap-moderation/ranking-lifecycle",
			"layer", "adapter",
			"kind", string(notification.Kind),
		)
		return nil
	}

	body, err := json.Marshal(payload{Embeds: []embed{d.buildEmbed(notification)}})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	// The delivery id travels with the request and with every failure, so
	// a logged failure can be matched against the channel's history.
	deliveryID := uuid.NewString()
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("X-Delivery-Id", deliveryID)

	response, err := d.client.Do(request)
	if err != nil {
		return fmt.Errorf("post webhook delivery %s: %w", deliveryID, err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("webhook delivery %s responded with status %d", deliveryID, response.StatusCode)
	}
	return nil
}

func (d *Discord) routeURL(kind ports.NotificationKind) string {
	primary := d.nominationURL
	fallback := d.qualifiedURL
	if kind == ports.NotificationNominationProgress || kind == ports.NotificationQualified {
		primary, fallback = d.qualifiedURL, d.nominationURL
	}
	if primary != "" {
		return primary
	}
	return fallback
}

func (d *Discord) buildEmbed(notification ports.Notification) embed {
	color := colorStatus
	if notification.Kind == ports.NotificationNominationProgress {
		color = colorProgress
	}
	setURL := fmt.Sprintf("https://osu.ppy.sh/beatmapsets/%d", notification.SetID)
	return embed{
		Description: fmt.Sprintf("[%s](%s)", notification.Summary, setURL),
		Color:       color,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Author: &embedAuthor{
			Name:    "Automatic Status Bot (Click to get beatmap!)",
			IconURL: "https://a.ppy.sh/1",
			URL:     setURL,
		},
		Image: &embedImage{
			URL: fmt.Sprintf("https://assets.ppy.sh/beatmaps/%d/covers/card.jpg", notification.SetID),
		},
		Footer: &embedFooter{Text: "Nomination Tools"},
	}
}
