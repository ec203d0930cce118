package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"taxonomy-console/application/commands"
	"taxonomy-console/application/commands/bus"
	"taxonomy-console/application/services"
	"taxonomy-console/application/submission"
	"taxonomy-console/domain/config"
	"taxonomy-console/domain/core/entities"
	"taxonomy-console/domain/core/validators"
	"taxonomy-console/domain/wizard"
	"taxonomy-console/infrastructure/session"
	appErrors "taxonomy-console/pkg/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockClient struct {
	mock.Mock
}

func (m *mockClient) SearchFrameworks(ctx context.Context, statuses []string) ([]entities.FrameworkRecord, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).([]entities.FrameworkRecord), args.Error(1)
}

func (m *mockClient) SearchChannels(ctx context.Context, statuses []string) ([]entities.ChannelRecord, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).([]entities.ChannelRecord), args.Error(1)
}

func (m *mockClient) ReadFramework(ctx context.Context, identifier string) (*entities.FrameworkRecord, error) {
	args := m.Called(ctx, identifier)
	record, _ := args.Get(0).(*entities.FrameworkRecord)
	return record, args.Error(1)
}

func (m *mockClient) CreateFramework(ctx context.Context, framework entities.Framework) (string, error) {
	args := m.Called(ctx, framework)
	return args.String(0), args.Error(1)
}

func (m *mockClient) CreateCategory(ctx context.Context, frameworkID string, category entities.Category) (string, error) {
	args := m.Called(ctx, frameworkID, category)
	return args.String(0), args.Error(1)
}

func (m *mockClient) PublishFramework(ctx context.Context, frameworkID string) error {
	return m.Called(ctx, frameworkID).Error(0)
}

func (m *mockClient) CreateChannel(ctx context.Context, channel entities.Channel) (string, error) {
	args := m.Called(ctx, channel)
	return args.String(0), args.Error(1)
}

func newBus(t *testing.T) (*bus.CommandBus, *mockClient) {
	t.Helper()
	client := &mockClient{}
	store := session.NewMemoryStore(time.Hour, time.Hour, nil)
	t.Cleanup(store.Close)

	cfg := config.DefaultDomainConfig()
	wizardSvc := services.NewWizardService(cfg, store, submission.NewAdapter(client, nil), nil, nil, nil, nil)
	catalogSvc := services.NewCatalogService(client, validators.NewDraftValidator(cfg), nil, nil, nil)

	b := bus.NewCommandBus()
	require.NoError(t, NewWizardHandlers(wizardSvc).Register(b))
	require.NoError(t, NewChannelHandlers(catalogSvc).Register(b))
	return b, client
}

func send(t *testing.T, b *bus.CommandBus, cmd bus.Command) *services.Snapshot {
	t.Helper()
	result, err := b.Send(context.Background(), cmd)
	require.NoError(t, err)
	snap, ok := result.(*services.Snapshot)
	require.True(t, ok, "expected a snapshot, got %T", result)
	return snap
}

func TestWizardHandlers_ChannelStep(t *testing.T) {
	b, client := newBus(t)

	snap := send(t, b, commands.StartSessionCommand{})
	id := snap.SessionID
	assert.Equal(t, int(wizard.StepChannel), snap.Step.Number)

	snap = send(t, b, commands.SetChannelCommand{SessionID: id, Name: "Test Channel", Code: "test-channel"})
	assert.Equal(t, "test-channel", snap.Draft.Channel.Code)

	snap = send(t, b, commands.AdvanceCommand{SessionID: id})
	assert.Equal(t, int(wizard.StepFramework), snap.Step.Number)

	snap = send(t, b, commands.RetreatCommand{SessionID: id})
	assert.Equal(t, int(wizard.StepChannel), snap.Step.Number)
	client.AssertNotCalled(t, "CreateFramework", mock.Anything, mock.Anything)
}

func TestWizardHandlers_UnknownSession(t *testing.T) {
	b, _ := newBus(t)

	_, err := b.Send(context.Background(), commands.AdvanceCommand{SessionID: "missing"})

	assert.ErrorIs(t, err, appErrors.ErrSessionNotFound)
}

func TestWizardHandlers_DeleteSession(t *testing.T) {
	b, _ := newBus(t)
	id := send(t, b, commands.StartSessionCommand{}).SessionID

	result, err := b.Send(context.Background(), commands.DeleteSessionCommand{SessionID: id})
	require.NoError(t, err)
	assert.Nil(t, result)

	_, err = b.Send(context.Background(), commands.RetreatCommand{SessionID: id})
	assert.ErrorIs(t, err, appErrors.ErrSessionNotFound)
}

func TestWizardHandlers_InvalidCommandNeverReachesService(t *testing.T) {
	b, _ := newBus(t)

	_, err := b.Send(context.Background(), commands.RemoveCategoryCommand{SessionID: "missing", Index: -1})

	var verrs *appErrors.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestChannelHandlers_CreateChannel(t *testing.T) {
	b, client := newBus(t)
	client.On("CreateChannel", mock.Anything, entities.Channel{Name: "Test Channel", Code: "test-channel"}).
		Return("ch_1", nil).Once()

	result, err := b.Send(context.Background(), commands.CreateChannelCommand{Name: "Test Channel", Code: "test-channel"})

	require.NoError(t, err)
	assert.Equal(t, &commands.CreateChannelResult{Identifier: "ch_1"}, result)
	client.AssertExpectations(t)
}
