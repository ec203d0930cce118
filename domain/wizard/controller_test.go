package wizard

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxonomy-console/domain/core/aggregates"
	"taxonomy-console/domain/core/entities"
	"taxonomy-console/pkg/errors"
)

func TestSteps(t *testing.T) {
	steps := Steps()

	require.Len(t, steps, StepCount)
	assert.Equal(t, StepInfo{Number: 1, Title: "Channel"}, steps[0])
	assert.Equal(t, StepInfo{Number: 7, Title: "Publish"}, steps[6])
	assert.Equal(t, "", Step(0).Title())
	assert.Equal(t, "", Step(8).Title())
}

func TestController_Bounds(t *testing.T) {
	c := NewController()
	assert.Equal(t, StepChannel, c.Step())

	err := c.Retreat()
	assert.True(t, stderrors.Is(err, errors.ErrStepOutOfBounds))
	assert.Equal(t, StepChannel, c.Step())

	for i := 1; i < StepCount; i++ {
		require.NoError(t, c.Advance())
	}
	assert.Equal(t, StepPublish, c.Step())
	assert.True(t, c.Step().IsLast())

	err = c.Advance()
	assert.True(t, stderrors.Is(err, errors.ErrStepOutOfBounds))
	assert.Equal(t, StepPublish, c.Step())

	require.NoError(t, c.Retreat())
	assert.Equal(t, StepReview, c.Step())

	c.Reset()
	assert.Equal(t, StepChannel, c.Step())
}

func TestController_CheckGate(t *testing.T) {
	tests := []struct {
		name    string
		channel entities.Channel
		step    Step
		wantErr bool
	}{
		{"blank code on channel step", entities.Channel{Name: "Test Channel"}, StepChannel, true},
		{"whitespace code on channel step", entities.Channel{Code: "   "}, StepChannel, true},
		{"code present", entities.Channel{Name: "Test Channel", Code: "test-channel"}, StepChannel, false},
		{"other steps are not gated", entities.Channel{}, StepFramework, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := aggregates.NewDraft(nil)
			draft.SetChannel(tt.channel)
			c := &Controller{step: tt.step}

			err := c.CheckGate(draft)

			if tt.wantErr {
				assert.True(t, stderrors.Is(err, errors.ErrChannelCodeRequired))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.step, c.Step())
		})
	}
}
