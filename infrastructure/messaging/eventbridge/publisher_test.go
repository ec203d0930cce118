package eventbridge

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxonomy-console/domain/events"
)

type fakePutEvents struct {
	calls  []*eventbridge.PutEventsInput
	output *eventbridge.PutEventsOutput
	err    error
}

func (f *fakePutEvents) PutEvents(_ context.Context, in *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	f.calls = append(f.calls, in)
	if f.err != nil {
		return nil, f.err
	}
	if f.output != nil {
		return f.output, nil
	}
	return &eventbridge.PutEventsOutput{}, nil
}

func categoryEvents(n int) []events.DomainEvent {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	out := make([]events.DomainEvent, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, events.NewCategoryCreated("draft-1", 3, "do_1234", "subject", 2, at))
	}
	return out
}

func TestPublisher_Batches(t *testing.T) {
	fake := &fakePutEvents{}
	publisher := NewPublisher(fake, "wizard-bus", nil)

	require.NoError(t, publisher.PublishBatch(context.Background(), categoryEvents(23)))

	require.Len(t, fake.calls, 3)
	assert.Len(t, fake.calls[0].Entries, 10)
	assert.Len(t, fake.calls[1].Entries, 10)
	assert.Len(t, fake.calls[2].Entries, 3)

	entry := fake.calls[0].Entries[0]
	assert.Equal(t, "wizard-bus", aws.ToString(entry.EventBusName))
	assert.Equal(t, Source, aws.ToString(entry.Source))
	assert.Equal(t, events.TypeCategoryCreated, aws.ToString(entry.DetailType))
	assert.Contains(t, aws.ToString(entry.Detail), `"do_1234"`)
	assert.Equal(t, []string{"taxonomy-console:draft/draft-1"}, entry.Resources)
}

func TestPublisher_Empty(t *testing.T) {
	fake := &fakePutEvents{}

	require.NoError(t, NewPublisher(fake, "bus", nil).PublishBatch(context.Background(), nil))

	assert.Empty(t, fake.calls)
}

func TestPublisher_Failures(t *testing.T) {
	t.Run("client error", func(t *testing.T) {
		fake := &fakePutEvents{err: stderrors.New("throttled")}

		err := NewPublisher(fake, "bus", nil).Publish(context.Background(), categoryEvents(1)[0])

		assert.ErrorContains(t, err, "throttled")
	})

	t.Run("failed entries", func(t *testing.T) {
		fake := &fakePutEvents{output: &eventbridge.PutEventsOutput{
			FailedEntryCount: 1,
			Entries: []types.PutEventsResultEntry{
				{EventId: aws.String("1")},
				{ErrorCode: aws.String("InternalFailure"), ErrorMessage: aws.String("try later")},
			},
		}}

		err := NewPublisher(fake, "bus", nil).PublishBatch(context.Background(), categoryEvents(2))

		assert.EqualError(t, err, "1 events failed to publish")
	})
}
