package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlebRadaev/investadmin/internal/domain"
	"github.com/GlebRadaev/investadmin/internal/metrics"
)

type recordingSender struct {
	name  string
	err   error
	block chan struct{}
	ready chan struct{}

	mu     sync.Mutex
	events []Event
}

func (s *recordingSender) Name() string { return s.name }

func (s *recordingSender) Send(ctx context.Context, event Event) error {
	if s.ready != nil {
		s.ready <- struct{}{}
	}
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *recordingSender) received() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func TestDispatcher_FansOut(t *testing.T) {
	ok := &recordingSender{name: "ok"}
	failing := &recordingSender{name: "failing", err: errors.New("broker down")}
	d := NewDispatcher(2, 8, ok, failing)

	ctx, cancel := context.WithCancel(context.Background())
	d.Notify(ctx, 5, domain.EventWithdrawalApproved, map[string]any{"withdrawalId": int64(11)})
	cancel()
	d.Close()

	require.Len(t, ok.received(), 1)
	require.Len(t, failing.received(), 1)
	event := ok.received()[0]
	assert.Equal(t, int64(5), event.UserID)
	assert.Equal(t, domain.EventWithdrawalApproved, event.Kind)
	assert.Equal(t, int64(11), event.Payload["withdrawalId"])
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, event.ID, failing.received()[0].ID)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	sender := &recordingSender{name: "slow", block: make(chan struct{}), ready: make(chan struct{}, 4)}
	d := NewDispatcher(1, 1, sender)
	dropped := metrics.Notifications.WithLabelValues("dispatcher", "error")
	before := testutil.ToFloat64(dropped)

	d.Notify(context.Background(), 1, domain.EventDepositApproved, nil)
	<-sender.ready
	d.Notify(context.Background(), 2, domain.EventDepositApproved, nil)
	d.Notify(context.Background(), 3, domain.EventDepositApproved, nil)

	assert.Equal(t, before+1, testutil.ToFloat64(dropped))

	close(sender.block)
	d.Close()
	assert.Len(t, sender.received(), 2)
}
