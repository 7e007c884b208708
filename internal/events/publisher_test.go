package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestKafkaEventPublisher_PublishSetsMetadata(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, "quiz-events")
	require.NoError(t, err)

	publisher := newKafkaEventPublisher(pubSub, "quiz-events", testLogger())
	event := NewQuizPublishedEvent(QuizPublishedEvent{QuizID: 7, QuizTitle: "Capitals", ShareableLinkID: "abc", QuestionCount: 3})

	require.NoError(t, publisher.Publish(ctx, event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, event.ID, msg.UUID)
		assert.Equal(t, string(EventQuizPublished), msg.Metadata.Get("event_type"))
		assert.Equal(t, "quiz-service", msg.Metadata.Get("source"))

		var decoded struct {
			Type EventType          `json:"type"`
			Data QuizPublishedEvent `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, EventQuizPublished, decoded.Type)
		assert.Equal(t, uint(7), decoded.Data.QuizID)
		assert.Equal(t, "abc", decoded.Data.ShareableLinkID)
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}

func TestMockEventPublisher(t *testing.T) {
	publisher := NewMockEventPublisher(testLogger())
	ctx := context.Background()

	require.NoError(t, publisher.Publish(ctx, NewQuizDeletedEvent(QuizDeletedEvent{QuizID: 1})))
	require.NoError(t, publisher.Publish(ctx, NewSubmissionsPurgedEvent(SubmissionsPurgedEvent{QuizID: 1, Count: 4})))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 2)
	assert.Equal(t, EventQuizDeleted, published[0].Type)
	assert.Equal(t, EventSubmissionsPurged, published[1].Type)
	assert.NotEqual(t, published[0].ID, published[1].ID)

	publisher.ClearEvents()
	assert.Empty(t, publisher.GetPublishedEvents())
	assert.NoError(t, publisher.Close())
}
