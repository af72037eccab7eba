package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type writerMock struct {
	WriteMessagesFunc func(ctx context.Context, msgs ...kafka.Message) error
	written           []kafka.Message
	closed            bool
}

func (m *writerMock) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	m.written = append(m.written, msgs...)
	if m.WriteMessagesFunc != nil {
		return m.WriteMessagesFunc(ctx, msgs...)
	}
	return nil
}

func (m *writerMock) Close() error {
	m.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	t.Parallel()

	w := &writerMock{}
	p := NewKafkaPublisher(w, zap.NewNop())

	err := p.Publish(context.Background(), Event{
		Type: TypeMembershipChanged,
		Key:  "community-1",
		Data: map[string]any{"memberCount": 3},
	})
	require.NoError(t, err)
	require.Len(t, w.written, 1)

	msg := w.written[0]
	assert.Equal(t, "community-1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, TypeMembershipChanged, string(msg.Headers[0].Value))

	var got Event
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, TypeMembershipChanged, got.Type)
	assert.False(t, got.At.IsZero())
	assert.WithinDuration(t, time.Now(), got.At, time.Minute)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	t.Parallel()

	boom := errors.New("leader not available")
	w := &writerMock{WriteMessagesFunc: func(context.Context, ...kafka.Message) error { return boom }}

	err := NewKafkaPublisher(w, zap.NewNop()).Publish(context.Background(), Event{Type: TypeCatalogChanged, Key: "g1"})

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), TypeCatalogChanged)
}

func TestNopPublisher(t *testing.T) {
	t.Parallel()

	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{Type: TypeCatalogChanged}))
	assert.NoError(t, p.Close())
}
