package rmqconsumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"media-gallery-api/config"
	"media-gallery-api/internal/domain/activity"
	"media-gallery-api/internal/domain/media"
)

type fakeRepo struct {
	InsertFunc func(ctx context.Context, e activity.Event) error
	inserted   []activity.Event
}

func (f *fakeRepo) Insert(ctx context.Context, e activity.Event) error {
	if f.InsertFunc != nil {
		if err := f.InsertFunc(ctx, e); err != nil {
			return err
		}
	}
	f.inserted = append(f.inserted, e)
	return nil
}

func (f *fakeRepo) FetchRecent(context.Context, int) (activity.Events, error) { return nil, nil }

type ackRecorder struct {
	acked   int
	nacked  int
	requeue bool
}

func (a *ackRecorder) Ack(uint64, bool) error { a.acked++; return nil }
func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}
func (a *ackRecorder) Reject(uint64, bool) error { return nil }

func body(t *testing.T, e activity.Event) []byte {
	t.Helper()
	b, err := json.Marshal(e)
	require.NoError(t, err)
	return b
}

func Test_handle_Table(t *testing.T) {
	uploaded := activity.Event{ID: uuid.New(), Action: activity.ActionFileUploaded, Kind: media.KindImage, StorageKey: "a.png"}
	dbDown := errors.New("db down")

	type tc struct {
		name        string
		routingKey  string
		body        func(t *testing.T) []byte
		redelivered bool
		insertErr   error
		wantStored  int
		wantAck     int
		wantNack    int
		wantRequeue bool
	}
	cases := []tc{
		{
			name:       "stored and acked",
			routingKey: "file_uploaded",
			body:       func(t *testing.T) []byte { return body(t, uploaded) },
			wantStored: 1,
			wantAck:    1,
		},
		{
			name:       "garbage body is dropped",
			routingKey: "file_uploaded",
			body:       func(*testing.T) []byte { return []byte("{not json") },
			wantNack:   1,
		},
		{
			name:       "routing key mismatch is dropped",
			routingKey: "file_deleted",
			body:       func(t *testing.T) []byte { return body(t, uploaded) },
			wantNack:   1,
		},
		{
			name:        "repository failure is requeued once",
			routingKey:  "file_uploaded",
			body:        func(t *testing.T) []byte { return body(t, uploaded) },
			insertErr:   dbDown,
			wantNack:    1,
			wantRequeue: true,
		},
		{
			name:        "redelivered failure is not requeued",
			routingKey:  "file_uploaded",
			body:        func(t *testing.T) []byte { return body(t, uploaded) },
			redelivered: true,
			insertErr:   dbDown,
			wantNack:    1,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{InsertFunc: func(context.Context, activity.Event) error { return tt.insertErr }}
			c := New(config.MQ{}, zap.NewNop(), repo)
			ack := &ackRecorder{}

			c.handle(context.Background(), amqp091.Delivery{
				Acknowledger: ack,
				RoutingKey:   tt.routingKey,
				Redelivered:  tt.redelivered,
				Body:         tt.body(t),
			})

			assert.Len(t, repo.inserted, tt.wantStored)
			assert.Equal(t, tt.wantAck, ack.acked)
			assert.Equal(t, tt.wantNack, ack.nacked)
			assert.Equal(t, tt.wantRequeue, ack.requeue)
		})
	}
}

func TestConnect_InvalidDSN(t *testing.T) {
	c := New(config.MQ{}, zap.NewNop(), &fakeRepo{})

	err := c.Connect("amqp://bad:://dsn")
	require.Error(t, err)
	require.Nil(t, c.chConsume)
	require.Nil(t, c.conn)
}
