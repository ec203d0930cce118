// Package wizard holds the step counter of the framework creation wizard.
package wizard

import (
	"strings"

	"taxonomy-console/domain/core/aggregates"
	"taxonomy-console/pkg/errors"
)

// Step is a 1-based wizard page number
type Step int

const (
	StepChannel Step = iota + 1
	StepFramework
	StepCategories
	StepTerms
	StepAssociations
	StepReview
	StepPublish
)

// StepCount is the number of wizard pages
const StepCount = int(StepPublish)

var stepTitles = [...]string{
	StepChannel:      "Channel",
	StepFramework:    "Framework",
	StepCategories:   "Categories",
	StepTerms:        "Terms",
	StepAssociations: "Associations",
	StepReview:       "Review",
	StepPublish:      "Publish",
}

// Title returns the page title
func (s Step) Title() string {
	if !s.Valid() {
		return ""
	}
	return stepTitles[s]
}

// Valid reports whether s is within 1..StepCount
func (s Step) Valid() bool {
	return s >= StepChannel && s <= StepPublish
}

// IsLast reports whether s is the publish step
func (s Step) IsLast() bool {
	return s == StepPublish
}

// StepInfo describes one wizard page
type StepInfo struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
}

// Steps lists every wizard page in order
func Steps() []StepInfo {
	out := make([]StepInfo, 0, StepCount)
	for s := StepChannel; s <= StepPublish; s++ {
		out = append(out, StepInfo{Number: int(s), Title: s.Title()})
	}
	return out
}

// Controller tracks the current wizard step
type Controller struct {
	step Step
}

// NewController creates a controller positioned on the first step
func NewController() *Controller {
	return &Controller{step: StepChannel}
}

// Step returns the current step
func (c *Controller) Step() Step {
	return c.step
}

// Info describes the current step
func (c *Controller) Info() StepInfo {
	return StepInfo{Number: int(c.step), Title: c.step.Title()}
}

// CanAdvance reports whether a next step exists
func (c *Controller) CanAdvance() bool {
	return c.step < StepPublish
}

// CanRetreat reports whether a previous step exists
func (c *Controller) CanRetreat() bool {
	return c.step > StepChannel
}

// CheckGate applies the cross-step gate for leaving the current step.
// Leaving the channel step requires a channel code.
func (c *Controller) CheckGate(draft *aggregates.Draft) error {
	if c.step == StepChannel && strings.TrimSpace(draft.Channel().Code) == "" {
		return errors.ErrChannelCodeRequired
	}
	return nil
}

// Advance moves to the next step. On the last step it is a no-op that returns
// STEP_OUT_OF_BOUNDS.
func (c *Controller) Advance() error {
	if !c.CanAdvance() {
		return errors.ErrStepOutOfBounds
	}
	c.step++
	return nil
}

// Retreat moves to the previous step. On the first step it is a no-op that
// returns STEP_OUT_OF_BOUNDS.
func (c *Controller) Retreat() error {
	if !c.CanRetreat() {
		return errors.ErrStepOutOfBounds
	}
	c.step--
	return nil
}

// Reset returns to the first step
func (c *Controller) Reset() {
	c.step = StepChannel
}
