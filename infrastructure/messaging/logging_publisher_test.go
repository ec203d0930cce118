package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"taxonomy-console/domain/events"
)

func TestLoggingPublisher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	publisher := NewLoggingPublisher(zap.New(core))
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	err := publisher.PublishBatch(context.Background(), []events.DomainEvent{
		events.NewFrameworkCreated("draft-1", 2, "do_1234", "math_fw", "in.ekstep", at),
		events.NewFrameworkPublished("draft-1", 5, "do_1234", 3, 12, at),
	})

	require.NoError(t, err)
	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, events.TypeFrameworkCreated, entries[0].ContextMap()["eventType"])
	assert.Equal(t, events.TypeFrameworkPublished, entries[1].ContextMap()["eventType"])
	assert.Equal(t, "draft-1", entries[1].ContextMap()["aggregateID"])
}
