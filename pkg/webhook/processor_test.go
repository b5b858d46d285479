package webhook_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboxlab/mailroom/pkg/metrics"
	"github.com/inboxlab/mailroom/pkg/monitoring"
	"github.com/inboxlab/mailroom/pkg/suppression"
	"github.com/inboxlab/mailroom/pkg/webhook"
)

// capturingObserver records CaptureMessage calls for alert assertions.
type capturingObserver struct {
	monitoring.Nop
	messages []string
}

func (c *capturingObserver) CaptureMessage(_ context.Context, _ monitoring.Severity, msg string, _ map[string]any) {
	c.messages = append(c.messages, msg)
}

// brokenStore fails every write.
type brokenStore struct{}

func (brokenStore) UpsertSuppression(context.Context, string, string, suppression.Reason) error {
	return errors.New("store down")
}
func (brokenStore) RecordBounce(context.Context, string, string, string, string) error {
	return errors.New("store down")
}
func (brokenStore) RecordComplaint(context.Context, string, string, string) error {
	return errors.New("store down")
}

func TestProcessor_CountsEachEventOnce(t *testing.T) {
	t.Parallel()

	sink := metrics.NewMemory()
	p := webhook.NewProcessor(suppression.NewMemoryStore(), sink)
	ctx := context.Background()

	for _, typ := range []string{
		webhook.EventSent, webhook.EventDelivered, webhook.EventOpened, webhook.EventClicked,
	} {
		p.Process(ctx, webhook.Event{Type: typ, Data: webhook.EventData{Email: "a@b.co"}})
	}

	assert.Equal(t, uint64(1), sink.Get(metrics.CounterSent))
	assert.Equal(t, uint64(1), sink.Get(metrics.CounterDelivered))
	assert.Equal(t, uint64(1), sink.Get(metrics.CounterOpened))
	assert.Equal(t, uint64(1), sink.Get(metrics.CounterClicked))
	assert.Zero(t, sink.Get(metrics.CounterBounced))
}

func TestProcessor_UnknownTypeIsNoop(t *testing.T) {
	t.Parallel()

	sink := metrics.NewMemory()
	store := suppression.NewMemoryStore()
	p := webhook.NewProcessor(store, sink)

	p.Process(context.Background(), webhook.Event{Type: "email.scheduled", Data: webhook.EventData{Email: "a@b.co"}})

	assert.Empty(t, sink.Snapshot())
	assert.Empty(t, store.Suppressions())
}

func TestProcessor_HardBounceSuppresses(t *testing.T) {
	t.Parallel()

	store := suppression.NewMemoryStore()
	p := webhook.NewProcessor(store, metrics.NewMemory())

	p.Process(context.Background(), webhook.Event{
		Type: webhook.EventBounced,
		Data: webhook.EventData{Email: "gone@example.com", Type: webhook.BounceHard, Reason: "user unknown", EmailID: "msg_1"},
	})

	require.Len(t, store.Bounces(), 1)
	assert.Equal(t, "hard", store.Bounces()[0].BounceType)
	assert.Equal(t, "msg_1", store.Bounces()[0].MessageID)

	recs := store.Suppressions()
	require.Len(t, recs, 1)
	assert.Equal(t, suppression.ReasonHardBounce, recs[0].Reason)
	assert.Equal(t, "gone@example.com", recs[0].Email)
}

func TestProcessor_SoftBounceRecordsOnly(t *testing.T) {
	t.Parallel()

	store := suppression.NewMemoryStore()
	p := webhook.NewProcessor(store, metrics.NewMemory())

	p.Process(context.Background(), webhook.Event{
		Type: webhook.EventBounced,
		Data: webhook.EventData{Email: "full@example.com", Type: webhook.BounceSoft, Reason: "mailbox full"},
	})

	assert.Len(t, store.Bounces(), 1)
	assert.Empty(t, store.Suppressions(), "soft bounces must not suppress")
}

func TestProcessor_ComplaintAlwaysSuppresses(t *testing.T) {
	t.Parallel()

	store := suppression.NewMemoryStore()
	p := webhook.NewProcessor(store, metrics.NewMemory())

	p.Process(context.Background(), webhook.Event{
		Type: webhook.EventComplained,
		Data: webhook.EventData{To: []string{"angry@example.com"}, EmailID: "msg_9"},
	})

	require.Len(t, store.Complaints(), 1)
	assert.Equal(t, "msg_9", store.Complaints()[0].MessageID)

	recs := store.Suppressions()
	require.Len(t, recs, 1)
	assert.Equal(t, suppression.ReasonSpamComplaint, recs[0].Reason)
	assert.Equal(t, "angry@example.com", recs[0].Email, "recipient falls back to the To list")
}

func TestProcessor_StorageFailureDoesNotPanic(t *testing.T) {
	t.Parallel()

	sink := metrics.NewMemory()
	p := webhook.NewProcessor(brokenStore{}, sink)

	assert.NotPanics(t, func() {
		p.Process(context.Background(), webhook.Event{
			Type: webhook.EventBounced,
			Data: webhook.EventData{Email: "a@b.co", Type: webhook.BounceHard},
		})
	})
	assert.Equal(t, uint64(1), sink.Get(metrics.CounterBounced), "metrics still update when the store fails")
}

func TestProcessor_ComplaintRateAlert(t *testing.T) {
	t.Parallel()

	obs := &capturingObserver{}
	p := webhook.NewProcessor(suppression.NewMemoryStore(), metrics.NewMemory(), webhook.WithObserver(obs))
	ctx := context.Background()

	send := webhook.Event{Type: webhook.EventSent, Data: webhook.EventData{Email: "a@b.co"}}
	complain := webhook.Event{Type: webhook.EventComplained, Data: webhook.EventData{Email: "a@b.co"}}

	// 100 sends and one complaint: 1% rate but the check is not armed at
	// sent <= 100.
	for i := 0; i < 100; i++ {
		p.Process(ctx, send)
	}
	p.Process(ctx, complain)
	assert.Empty(t, obs.messages, "alert must stay quiet until more than 100 sends")

	// One more send arms the check; the next complaint trips it.
	p.Process(ctx, send)
	p.Process(ctx, complain)
	require.NotEmpty(t, obs.messages)
	assert.Contains(t, obs.messages[0], "complaint rate")
}
