package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"nominator/contexts/beatmap-moderation/ranking-lifecycle/ports"
)

type capturedDelivery struct {
	path       string
	deliveryID string
	payload    payload
}

func newWebhookRecorder(t *testing.T, status int) (*httptest.Server, func() []capturedDelivery) {
	t.Helper()
	var mu sync.Mutex
	var deliveries []capturedDelivery

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body payload
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode webhook payload: %v", err)
		}
		mu.Lock()
		deliveries = append(deliveries, capturedDelivery{
			path:       r.URL.Path,
			deliveryID: r.Header.Get("X-Delivery-Id"),
			payload:    body,
		})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	return server, func() []capturedDelivery {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedDelivery(nil), deliveries...)
	}
}

func TestDiscordSendBuildsEmbed(t *testing.T) {
	server, deliveries := newWebhookRecorder(t, http.StatusNoContent)
	discord := NewDiscord(server.URL+"/nomination", server.URL+"/qualified", nil)

	err := discord.Send(context.Background(), ports.Notification{
		Kind:    ports.NotificationRanked,
		SetID:   1001,
		Summary: "Camellia - GHOST (qqqant) is now ranked!",
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	got := deliveries()
	if len(got) != 1 {
		t.Fatalf("expected one delivery, got %d", len(got))
	}
	delivery := got[0]
	if delivery.path != "/nomination" {
		t.Fatalf("ranked announcement routed to %s", delivery.path)
	}
	if delivery.deliveryID == "" {
		t.Fatalf("missing delivery id header")
	}
	if len(delivery.payload.Embeds) != 1 {
		t.Fatalf("expected one embed, got %d", len(delivery.payload.Embeds))
	}

	body := delivery.payload.Embeds[0]
	if !strings.Contains(body.Description, "is now ranked!") {
		t.Fatalf("summary missing from description: %s", body.Description)
	}
	if !strings.Contains(body.Description, "https://osu.ppy.sh/beatmapsets/1001") {
		t.Fatalf("set link missing from description: %s", body.Description)
	}
	if body.Color != colorStatus {
		t.Fatalf("status announcements use the status color, got %d", body.Color)
	}
	if body.Footer == nil || body.Footer.Text != "Nomination Tools" {
		t.Fatalf("unexpected footer: %+v", body.Footer)
	}
	if body.Image == nil || !strings.Contains(body.Image.URL, "beatmaps/1001/covers/card.jpg") {
		t.Fatalf("unexpected card image: %+v", body.Image)
	}
}

func TestDiscordRoutesProgressToQualifiedChannel(t *testing.T) {
	server, deliveries := newWebhookRecorder(t, http.StatusNoContent)
	discord := NewDiscord(server.URL+"/nomination", server.URL+"/qualified", nil)

	err := discord.Send(context.Background(), ports.Notification{
		Kind:    ports.NotificationNominationProgress,
		SetID:   7,
		Summary: "has 1/2 votes for qualification",
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	got := deliveries()
	if len(got) != 1 || got[0].path != "/qualified" {
		t.Fatalf("progress announcement misrouted: %+v", got)
	}
	if got[0].payload.Embeds[0].Color != colorProgress {
		t.Fatalf("progress announcements use the muted color, got %d", got[0].payload.Embeds[0].Color)
	}
}

func TestDiscordFallsBackWhenChannelMissing(t *testing.T) {
	server, deliveries := newWebhookRecorder(t, http.StatusNoContent)
	discord := NewDiscord(server.URL+"/nomination", "", nil)

	err := discord.Send(context.Background(), ports.Notification{
		Kind:    ports.NotificationQualified,
		SetID:   8,
		Summary: "is now qualified!",
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	got := deliveries()
	if len(got) != 1 || got[0].path != "/nomination" {
		t.Fatalf("expected fallback to nomination channel: %+v", got)
	}
}

func TestDiscordSkipsWhenUnconfigured(t *testing.T) {
	discord := NewDiscord("", "", nil)
	err := discord.Send(context.Background(), ports.Notification{
		Kind:    ports.NotificationLoved,
		SetID:   9,
		Summary: "is now loved!",
	})
	if err != nil {
		t.Fatalf("unconfigured webhook must be a silent skip: %v", err)
	}
}

func TestDiscordReportsNonSuccessStatus(t *testing.T) {
	server, deliveries := newWebhookRecorder(t, http.StatusTooManyRequests)
	discord := NewDiscord(server.URL, server.URL, nil)

	err := discord.Send(context.Background(), ports.Notification{
		Kind:    ports.NotificationCancelled,
		SetID:   10,
		Summary: "has been removed from the qualified pool",
	})
	if err == nil {
		t.Fatalf("non-2xx response must surface as an error")
	}

	// The failure carries the delivery id the channel saw, so the two can
	// be correlated.
	got := deliveries()
	if len(got) != 1 || got[0].deliveryID == "" {
		t.Fatalf("expected one delivery with an id, got %+v", got)
	}
	if !strings.Contains(err.Error(), got[0].deliveryID) {
		t.Fatalf("error %q does not reference delivery %s", err, got[0].deliveryID)
	}
}
