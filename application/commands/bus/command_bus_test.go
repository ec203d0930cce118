package bus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxonomy-console/pkg/common"
)

type renameCommand struct {
	Name string
}

func (c renameCommand) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type otherCommand struct{}

func (otherCommand) Validate() error { return nil }

type recordingLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
	fields []interface{}
}

func (l *recordingLogger) Infow(msg string, kv ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
	l.fields = kv
}

func (l *recordingLogger) Errorw(msg string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func TestCommandBus_Send(t *testing.T) {
	b := NewCommandBus()
	require.NoError(t, b.Register(renameCommand{}, HandlerFor(func(ctx context.Context, cmd renameCommand) (interface{}, error) {
		return "renamed to " + cmd.Name, nil
	})))

	result, err := b.Send(context.Background(), renameCommand{Name: "math"})

	require.NoError(t, err)
	assert.Equal(t, "renamed to math", result)
}

func TestCommandBus_ValidatesBeforeDispatch(t *testing.T) {
	called := false
	b := NewCommandBus()
	require.NoError(t, b.Register(renameCommand{}, HandlerFor(func(ctx context.Context, cmd renameCommand) (interface{}, error) {
		called = true
		return nil, nil
	})))

	_, err := b.Send(context.Background(), renameCommand{})

	assert.EqualError(t, err, "name is required")
	assert.False(t, called)
}

func TestCommandBus_Errors(t *testing.T) {
	b := NewCommandBus()
	handler := HandlerFor(func(ctx context.Context, cmd renameCommand) (interface{}, error) { return nil, nil })
	require.NoError(t, b.Register(renameCommand{}, handler))

	assert.Error(t, b.Register(renameCommand{}, handler), "duplicate registration")

	_, err := b.Send(context.Background(), otherCommand{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	_, err = handler.Handle(context.Background(), otherCommand{})
	assert.ErrorIs(t, err, ErrWrongCommandType)
}

func TestCommandBus_HandlerErrorsPassThrough(t *testing.T) {
	sentinel := errors.New("remote down")
	b := NewCommandBus()
	require.NoError(t, b.Register(renameCommand{}, HandlerFor(func(ctx context.Context, cmd renameCommand) (interface{}, error) {
		return nil, fmt.Errorf("create: %w", sentinel)
	})))

	_, err := b.Send(context.Background(), renameCommand{Name: "x"})

	assert.ErrorIs(t, err, sentinel)
}

func TestCommandBus_MiddlewareOrder(t *testing.T) {
	var order []string
	trace := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}
	b := NewCommandBus(trace("outer"), trace("inner"))
	require.NoError(t, b.Register(renameCommand{}, HandlerFor(func(ctx context.Context, cmd renameCommand) (interface{}, error) {
		order = append(order, "handler")
		return nil, nil
	})))

	_, err := b.Send(context.Background(), renameCommand{Name: "x"})

	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestLoggingMiddleware(t *testing.T) {
	logger := &recordingLogger{}
	b := NewCommandBus(LoggingMiddleware(logger))
	require.NoError(t, b.Register(renameCommand{}, HandlerFor(func(ctx context.Context, cmd renameCommand) (interface{}, error) {
		if cmd.Name == "fail" {
			return nil, errors.New("boom")
		}
		return nil, nil
	})))

	_, _ = b.Send(context.Background(), renameCommand{Name: "ok"})
	_, _ = b.Send(context.Background(), renameCommand{Name: "fail"})

	assert.Equal(t, []string{"Command succeeded"}, logger.infos)
	assert.Equal(t, []string{"Command failed"}, logger.errors)
}

func TestLoggingMiddleware_ContextFields(t *testing.T) {
	logger := &recordingLogger{}
	b := NewCommandBus(LoggingMiddleware(logger))
	require.NoError(t, b.Register(renameCommand{}, HandlerFor(func(ctx context.Context, cmd renameCommand) (interface{}, error) {
		return nil, nil
	})))

	ctx := common.WithSessionID(common.WithRequestID(context.Background(), "req-1"), "sess-1")
	_, err := b.Send(ctx, renameCommand{Name: "ok"})

	require.NoError(t, err)
	assert.Subset(t, logger.fields, []interface{}{"requestID", "req-1", "sessionID", "sess-1"})
}
