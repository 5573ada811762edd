package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/catalog/internal/config"
)

func TestNop(t *testing.T) {
	require.NoError(t, Nop{}.Publish(context.Background(), TopicProducts, "1", New(ProductCreated, 1, "TV")))
}

func TestNewEvent(t *testing.T) {
	e := New(CategoryDeleted, 3, "Books")
	require.Equal(t, "category_deleted", e.Type)
	require.EqualValues(t, 3, e.ID)
	require.WithinDuration(t, time.Now(), e.OccurredAt, time.Second)

	raw, err := json.Marshal(e)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"occurredAt"`)
}

func TestKafkaProducer_Integration(t *testing.T) {
	brokers := config.CSV(os.Getenv("KAFKA_BROKERS"))
	if len(brokers) == 0 {
		t.Skip("KAFKA_BROKERS is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, EnsureTopics(ctx, brokers[0], TopicProducts))

	conn, err := kafka.DialLeader(ctx, "tcp", brokers[0], TopicProducts, 0)
	require.NoError(t, err)
	end, err := conn.ReadLastOffset()
	require.NoError(t, err)
	_ = conn.Close()

	p := NewKafkaProducer(brokers)
	defer p.Close()
	require.NoError(t, p.Publish(ctx, TopicProducts, "42", New(ProductCreated, 42, "Smart TV")))

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   brokers,
		Topic:     TopicProducts,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
		MaxWait:   time.Second,
	})
	defer r.Close()
	require.NoError(t, r.SetOffset(end))

	for {
		msg, err := r.ReadMessage(ctx)
		require.NoError(t, err)
		if string(msg.Key) != "42" {
			continue
		}
		var got Event
		require.NoError(t, json.Unmarshal(msg.Value, &got))
		require.Equal(t, ProductCreated, got.Type)
		return
	}
}
