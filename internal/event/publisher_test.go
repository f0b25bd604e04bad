package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PorePranav/CloudCart/internal/auth/models"
)

type fakeSender struct {
	mu       sync.Mutex
	payloads [][]byte
	topics   []string
	failures int
}

func (f *fakeSender) Produce(_ context.Context, topic string, _, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("broker unavailable")
	}
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, value)
	return nil
}

func (f *fakeSender) sent() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.payloads...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testUser() models.UserResponse {
	return models.UserResponse{
		ID:        uuid.New(),
		Name:      "Ann",
		Email:     "a@x.com",
		Role:      models.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
}

func TestNewUserCreatedEnvelope(t *testing.T) {
	user := testUser()
	env, err := NewUserCreated(user)
	require.NoError(t, err)

	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, TypeUserCreated, env.Type)
	assert.Equal(t, SchemaVersion, env.SchemaVersion)

	decoded, err := DecodeUserCreated(env)
	require.NoError(t, err)
	assert.Equal(t, user.Email, decoded.Email)
	assert.Equal(t, user.ID, decoded.ID)
}

func TestEnvelopeNeverCarriesPasswordField(t *testing.T) {
	env, err := NewUserCreated(testUser())
	require.NoError(t, err)

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
}

func TestPublisherDeliversEnqueuedEvents(t *testing.T) {
	sender := &fakeSender{}
	p := NewPublisher(sender, "user.created", 16, discardLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = p.Run(ctx)
		close(done)
	}()

	env, err := NewUserCreated(testUser())
	require.NoError(t, err)
	p.Publish(env)

	require.Eventually(t, func() bool {
		return len(sender.sent()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done

	var got Envelope
	require.NoError(t, json.Unmarshal(sender.sent()[0], &got))
	assert.Equal(t, env.EventID, got.EventID)
	assert.Equal(t, "user.created", sender.topics[0])
}

func TestPublisherRetriesTransientFailures(t *testing.T) {
	sender := &fakeSender{failures: 2}
	p := NewPublisher(sender, "user.created", 16, discardLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	env, err := NewUserCreated(testUser())
	require.NoError(t, err)
	p.Publish(env)

	require.Eventually(t, func() bool {
		return len(sender.sent()) == 1
	}, 5*time.Second, 20*time.Millisecond)
}

func TestPublisherDrainsOnShutdown(t *testing.T) {
	sender := &fakeSender{}
	p := NewPublisher(sender, "user.created", 16, discardLogger(), nil)

	for i := 0; i < 5; i++ {
		env, err := NewUserCreated(testUser())
		require.NoError(t, err)
		p.Publish(env)
	}

	// Run starts with ctx already canceled: everything buffered must still
	// flush before Run returns.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, sender.sent(), 5)
}

func TestPublishNeverBlocksWhenBufferFull(t *testing.T) {
	sender := &fakeSender{}
	p := NewPublisher(sender, "user.created", 1, discardLogger(), nil)

	// No worker running; second publish hits a full buffer and must drop
	// instead of blocking.
	for i := 0; i < 3; i++ {
		env, err := NewUserCreated(testUser())
		require.NoError(t, err)

		doneCh := make(chan struct{})
		go func() {
			p.Publish(env)
			close(doneCh)
		}()
		select {
		case <-doneCh:
		case <-time.After(time.Second):
			t.Fatal("Publish blocked on full buffer")
		}
	}
}
