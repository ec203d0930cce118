// Package submission maps a wizard step to the calls it makes against the
// taxonomy service.
package submission

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"taxonomy-console/application/ports"
	"taxonomy-console/domain/core/aggregates"
	"taxonomy-console/domain/wizard"
	"taxonomy-console/pkg/errors"
)

// Adapter submits the slice of a draft that belongs to a step.
// It only ever writes to the staging draft it is given.
type Adapter struct {
	client ports.TaxonomyClient
	logger *zap.Logger
}

// NewAdapter creates a submission adapter
func NewAdapter(client ports.TaxonomyClient, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{client: client, logger: logger}
}

// Submit runs the calls for step:
//
//	Framework   create framework, store the returned identifier
//	Categories  create category, once per category, in order
//	Publish     publish the framework
//
// Every other step makes no call.
func (a *Adapter) Submit(ctx context.Context, step wizard.Step, staging *aggregates.Draft) error {
	plan, err := a.Plan(step, staging)
	if err != nil {
		return err
	}
	return plan.Execute(ctx)
}

// Plan builds the calls for step without running them
func (a *Adapter) Plan(step wizard.Step, staging *aggregates.Draft) (*Plan, error) {
	logger := a.logger.With(
		zap.String("draft_id", staging.ID().String()),
		zap.String("step", step.Title()),
	)
	plan := NewPlan(strings.ToLower(step.Title()), logger)

	switch step {
	case wizard.StepFramework:
		plan.Add("create framework", func(ctx context.Context) error {
			return a.createFramework(ctx, staging)
		})

	case wizard.StepCategories:
		frameworkID, err := frameworkIdentifier(staging)
		if err != nil {
			return nil, err
		}
		for index, category := range staging.Categories() {
			index, category := index, category
			plan.Add(fmt.Sprintf("create category %q", category.Code), func(ctx context.Context) error {
				id, err := a.client.CreateCategory(ctx, frameworkID, category)
				if err != nil {
					return err
				}
				logger.Debug("Category created",
					zap.String("category_code", category.Code),
					zap.String("category_id", id),
					zap.Int("terms", len(category.Terms)),
				)
				return staging.RecordCategoryCreated(index)
			})
		}

	case wizard.StepPublish:
		frameworkID, err := frameworkIdentifier(staging)
		if err != nil {
			return nil, err
		}
		plan.Add("publish framework", func(ctx context.Context) error {
			if err := a.client.PublishFramework(ctx, frameworkID); err != nil {
				return err
			}
			staging.MarkPublished()
			return nil
		})
	}

	return plan, nil
}

func (a *Adapter) createFramework(ctx context.Context, staging *aggregates.Draft) error {
	framework := staging.Framework()
	id, err := a.client.CreateFramework(ctx, framework)
	if err != nil {
		return err
	}
	// the create response echoes the code when no node id is returned
	if id == "" {
		id = framework.Code
	}
	staging.AssignIdentifier(id)
	return nil
}

// frameworkIdentifier prefers the identifier assigned on create and falls
// back to the framework code
func frameworkIdentifier(draft *aggregates.Draft) (string, error) {
	framework := draft.Framework()
	if framework.Identifier != "" {
		return framework.Identifier, nil
	}
	if framework.Code != "" {
		return framework.Code, nil
	}
	return "", errors.ErrFrameworkNotCreated
}
