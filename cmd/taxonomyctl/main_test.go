package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxonomy-console/application/commands"
	"taxonomy-console/application/commands/bus"
	"taxonomy-console/application/queries"
	querybus "taxonomy-console/application/queries/bus"
	"taxonomy-console/application/services"
	"taxonomy-console/domain/core/entities"
)

type recorded struct {
	frameworks queries.ListFrameworksQuery
	channels   queries.ListChannelsQuery
	created    commands.CreateChannelCommand
	closed     bool
}

func stubFactory(t *testing.T, rec *recorded) appFactory {
	return func(ctx context.Context, opts *globalOptions) (*app, error) {
		qb := querybus.NewQueryBus()
		require.NoError(t, qb.Register(queries.ListFrameworksQuery{}, querybus.HandlerFor(
			func(ctx context.Context, q queries.ListFrameworksQuery) (interface{}, error) {
				rec.frameworks = q
				return []services.FrameworkSummary{
					{Identifier: "fw_1", Name: "Math", Code: "math", Status: "Live", StatusLabel: "Published"},
				}, nil
			})))
		require.NoError(t, qb.Register(queries.GetFrameworkQuery{}, querybus.HandlerFor(
			func(ctx context.Context, q queries.GetFrameworkQuery) (interface{}, error) {
				if q.Identifier != "fw_1" {
					return nil, errors.New("framework not found")
				}
				return &entities.FrameworkRecord{
					Identifier: "fw_1",
					Name:       "Math",
					Categories: []entities.CategoryRecord{{Name: "Board", Code: "board", Terms: []entities.TermRecord{{Code: "cbse"}}}},
				}, nil
			})))
		require.NoError(t, qb.Register(queries.ListChannelsQuery{}, querybus.HandlerFor(
			func(ctx context.Context, q queries.ListChannelsQuery) (interface{}, error) {
				rec.channels = q
				return []entities.ChannelRecord{{Identifier: "ch_1", Name: "Test Channel", Code: "test-channel", Status: "Live"}}, nil
			})))
		require.NoError(t, qb.Register(queries.DashboardQuery{}, querybus.HandlerFor(
			func(ctx context.Context, q queries.DashboardQuery) (interface{}, error) {
				return services.BuildDashboard([]entities.FrameworkRecord{
					{Identifier: "fw_1", Name: "Math", Code: "math", Status: "Live", LastUpdatedOn: "2024-01-01"},
					{Identifier: "fw_2", Name: "Science", Code: "sci", Status: "Draft"},
				}), nil
			})))

		cb := bus.NewCommandBus()
		require.NoError(t, cb.Register(commands.CreateChannelCommand{}, bus.HandlerFor(
			func(ctx context.Context, cmd commands.CreateChannelCommand) (interface{}, error) {
				if cmd.Name == "" {
					return nil, errors.New("channel name is required")
				}
				rec.created = cmd
				return &commands.CreateChannelResult{Identifier: "ch_new"}, nil
			})))

		return &app{
			commands: cb,
			queries:  qb,
			format:   opts.output,
			close: func() error {
				rec.closed = true
				return nil
			},
		}, nil
	}
}

func run(t *testing.T, rec *recorded, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(stubFactory(t, rec))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestFrameworks(t *testing.T) {
	rec := &recorded{}

	out, err := run(t, rec, "frameworks", "--status", "Live,Draft")

	require.NoError(t, err)
	assert.Equal(t, []string{"Live", "Draft"}, rec.frameworks.Statuses)
	assert.Contains(t, out, "IDENTIFIER")
	assert.Contains(t, out, "fw_1")
	assert.Contains(t, out, "Published")
	assert.True(t, rec.closed)
}

func TestFrameworks_JSON(t *testing.T) {
	out, err := run(t, &recorded{}, "frameworks", "-o", "json")
	require.NoError(t, err)

	var rows []services.FrameworkSummary
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "math", rows[0].Code)
}

func TestFrameworkGet(t *testing.T) {
	t.Run("shows categories", func(t *testing.T) {
		out, err := run(t, &recorded{}, "frameworks", "get", "fw_1")
		require.NoError(t, err)
		assert.Contains(t, out, "board")
	})

	t.Run("requires an identifier", func(t *testing.T) {
		_, err := run(t, &recorded{}, "frameworks", "get")
		assert.Error(t, err)
	})

	t.Run("query error", func(t *testing.T) {
		_, err := run(t, &recorded{}, "frameworks", "get", "missing")
		assert.EqualError(t, err, "framework not found")
	})
}

func TestChannels(t *testing.T) {
	rec := &recorded{}

	out, err := run(t, rec, "channels", "--search", "  test ", "--status", "Live")

	require.NoError(t, err)
	assert.Equal(t, "test", rec.channels.Search)
	assert.Equal(t, []string{"Live"}, rec.channels.Statuses)
	assert.Contains(t, out, "test-channel")
}

func TestChannelCreate(t *testing.T) {
	t.Run("creates", func(t *testing.T) {
		rec := &recorded{}

		out, err := run(t, rec, "channels", "create", "--name", "Test Channel", "--code", "test-channel")

		require.NoError(t, err)
		assert.Equal(t, "Test Channel", rec.created.Name)
		assert.Contains(t, out, "ch_new")
	})

	t.Run("name is required", func(t *testing.T) {
		rec := &recorded{}

		_, err := run(t, rec, "channels", "create", "--code", "test-channel")

		assert.EqualError(t, err, "channel name is required")
		assert.Empty(t, rec.created.Code)
	})
}

func TestDashboard(t *testing.T) {
	out, err := run(t, &recorded{}, "dashboard")

	require.NoError(t, err)
	assert.Contains(t, out, "Total frameworks")
	assert.Contains(t, out, "Science")
}

func TestUnknownOutputFormat(t *testing.T) {
	rec := &recorded{}

	_, err := run(t, rec, "frameworks", "-o", "yaml")

	assert.ErrorContains(t, err, "unknown output format")
	assert.False(t, rec.closed)
}

func TestVersion(t *testing.T) {
	out, err := run(t, &recorded{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}
