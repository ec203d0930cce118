package submission

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Action is one outbound call of a plan
type Action struct {
	Name    string
	Execute func(ctx context.Context) error
}

// PlanState represents the current state of a plan execution
type PlanState string

const (
	PlanStatePending   PlanState = "PENDING"
	PlanStateRunning   PlanState = "RUNNING"
	PlanStateCompleted PlanState = "COMPLETED"
	PlanStateFailed    PlanState = "FAILED"
)

// Plan runs the remote calls of one wizard step in order. The first failing
// action aborts the plan. Actions that already succeeded are not undone: the
// taxonomy service has no delete endpoint for them.
type Plan struct {
	id        string
	name      string
	actions   []Action
	state     PlanState
	completed int
	logger    *zap.Logger
}

// NewPlan creates an empty plan
func NewPlan(name string, logger *zap.Logger) *Plan {
	return &Plan{
		id:      generatePlanID(),
		name:    name,
		actions: make([]Action, 0),
		state:   PlanStatePending,
		logger:  logger,
	}
}

// Add appends an action to the plan
func (p *Plan) Add(name string, execute func(ctx context.Context) error) *Plan {
	p.actions = append(p.actions, Action{Name: name, Execute: execute})
	return p
}

// Execute runs the actions one after another
func (p *Plan) Execute(ctx context.Context) error {
	p.state = PlanStateRunning
	if len(p.actions) == 0 {
		p.state = PlanStateCompleted
		return nil
	}

	p.logger.Info("Starting submission plan",
		zap.String("plan_id", p.id),
		zap.String("plan_name", p.name),
		zap.Int("total_actions", len(p.actions)),
	)

	for i, action := range p.actions {
		if err := ctx.Err(); err != nil {
			p.state = PlanStateFailed
			return fmt.Errorf("plan %s interrupted before %s: %w", p.name, action.Name, err)
		}

		started := time.Now()
		if err := action.Execute(ctx); err != nil {
			p.state = PlanStateFailed
			fields := []zap.Field{
				zap.String("plan_id", p.id),
				zap.String("action", action.Name),
				zap.Int("action_number", i+1),
				zap.Int("completed_actions", p.completed),
				zap.Error(err),
			}
			if p.completed > 0 {
				p.logger.Warn("Submission plan failed after partial success; completed calls stay on the taxonomy service", fields...)
			} else {
				p.logger.Error("Submission plan failed", fields...)
			}
			return fmt.Errorf("%s failed: %w", action.Name, err)
		}

		p.completed++
		p.logger.Debug("Submission action completed",
			zap.String("plan_id", p.id),
			zap.String("action", action.Name),
			zap.Duration("duration", time.Since(started)),
		)
	}

	p.state = PlanStateCompleted
	p.logger.Info("Submission plan completed",
		zap.String("plan_id", p.id),
		zap.String("plan_name", p.name),
		zap.Int("completed_actions", p.completed),
	)
	return nil
}

// State returns the current state of the plan
func (p *Plan) State() PlanState {
	return p.state
}

// Completed returns how many actions succeeded
func (p *Plan) Completed() int {
	return p.completed
}

// Len returns the number of actions
func (p *Plan) Len() int {
	return len(p.actions)
}

func generatePlanID() string {
	return fmt.Sprintf("plan_%d", time.Now().UnixNano())
}
