package natspub

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
)

func TestSubject(t *testing.T) {
	tests := []struct {
		name  string
		event domain.TripEvent
		want  string
	}{
		{"plain", domain.TripEvent{TripID: "abc", Type: domain.TripEventRerouteSuggested}, "safewalk.trips.abc.reroute_suggested"},
		{"dots and wildcards", domain.TripEvent{TripID: "a.b*c>", Type: domain.TripEventStopped}, "safewalk.trips.a_b_c_.trip_stopped"},
		{"empty id", domain.TripEvent{Type: domain.TripEventStarted}, "safewalk.trips._.trip_started"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Subject(tt.event))
		})
	}
}

func TestPublisher_PublishTripEvent(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		url = nats.DefaultURL
	}

	pub, err := NewPublisher(url, zap.NewNop(), nil)
	if err != nil {
		t.Skipf("NATS not available: %v", err)
	}
	defer pub.Close()

	sub, err := pub.nc.SubscribeSync("safewalk.trips.test-trip.>")
	require.NoError(t, err)
	defer sub.Unsubscribe()

	score := 55
	event := domain.TripEvent{
		TripID:     "test-trip",
		Type:       domain.TripEventRerouteSuggested,
		State:      domain.TripStateRerouteSuggested,
		Score:      &score,
		OccurredAt: time.Now().UTC(),
	}
	require.NoError(t, pub.PublishTripEvent(context.Background(), event))

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "safewalk.trips.test-trip.reroute_suggested", msg.Subject)

	var got domain.TripEvent
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, event.TripID, got.TripID)
	require.NotNil(t, got.Score)
	assert.Equal(t, 55, *got.Score)
}
