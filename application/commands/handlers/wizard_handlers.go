package handlers

import (
	"context"

	"taxonomy-console/application/commands"
	"taxonomy-console/application/commands/bus"
	"taxonomy-console/application/services"
	"taxonomy-console/domain/core/entities"
	appErrors "taxonomy-console/pkg/errors"
)

// WizardHandlers routes wizard commands to the wizard service. Every handler
// returns the session snapshot after the change, except DeleteSession.
type WizardHandlers struct {
	wizard *services.WizardService
}

// NewWizardHandlers creates the wizard command handlers
func NewWizardHandlers(wizard *services.WizardService) *WizardHandlers {
	return &WizardHandlers{wizard: wizard}
}

// Register adds every wizard command to the bus
func (h *WizardHandlers) Register(b *bus.CommandBus) error {
	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.StartSessionCommand{}, bus.HandlerFor(h.startSession)},
		{commands.DeleteSessionCommand{}, bus.HandlerFor(h.deleteSession)},
		{commands.SetChannelCommand{}, bus.HandlerFor(h.setChannel)},
		{commands.UpdateFrameworkCommand{}, bus.HandlerFor(h.updateFramework)},
		{commands.AddCategoryCommand{}, bus.HandlerFor(h.addCategory)},
		{commands.AddDefaultCategoryCommand{}, bus.HandlerFor(h.addDefaultCategory)},
		{commands.RemoveCategoryCommand{}, bus.HandlerFor(h.removeCategory)},
		{commands.AddTermCommand{}, bus.HandlerFor(h.addTerm)},
		{commands.SelectAssociationSourceCommand{}, bus.HandlerFor(h.selectSource)},
		{commands.ToggleAssociationCommand{}, bus.HandlerFor(h.toggle)},
		{commands.SaveAssociationsCommand{}, bus.HandlerFor(h.saveAssociations)},
		{commands.AdvanceCommand{}, bus.HandlerFor(h.advance)},
		{commands.RetreatCommand{}, bus.HandlerFor(h.retreat)},
	}
	for _, r := range registrations {
		if err := b.Register(r.cmd, r.handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *WizardHandlers) startSession(ctx context.Context, _ commands.StartSessionCommand) (interface{}, error) {
	return h.wizard.CreateSession(ctx)
}

func (h *WizardHandlers) deleteSession(ctx context.Context, cmd commands.DeleteSessionCommand) (interface{}, error) {
	return nil, h.wizard.DeleteSession(ctx, cmd.SessionID)
}

func (h *WizardHandlers) setChannel(ctx context.Context, cmd commands.SetChannelCommand) (interface{}, error) {
	return h.wizard.SetChannel(ctx, cmd.SessionID, entities.Channel{Name: cmd.Name, Code: cmd.Code})
}

func (h *WizardHandlers) updateFramework(ctx context.Context, cmd commands.UpdateFrameworkCommand) (interface{}, error) {
	return h.wizard.UpdateFramework(ctx, cmd.SessionID, cmd.Patch())
}

func (h *WizardHandlers) addCategory(ctx context.Context, cmd commands.AddCategoryCommand) (interface{}, error) {
	return h.wizard.AddCategory(ctx, cmd.SessionID, entities.Category{
		Name:        cmd.Name,
		Code:        cmd.Code,
		Description: cmd.Description,
	})
}

func (h *WizardHandlers) addDefaultCategory(ctx context.Context, cmd commands.AddDefaultCategoryCommand) (interface{}, error) {
	return h.wizard.AddDefaultCategory(ctx, cmd.SessionID, cmd.Code)
}

func (h *WizardHandlers) removeCategory(ctx context.Context, cmd commands.RemoveCategoryCommand) (interface{}, error) {
	return h.wizard.RemoveCategory(ctx, cmd.SessionID, cmd.Index)
}

func (h *WizardHandlers) addTerm(ctx context.Context, cmd commands.AddTermCommand) (interface{}, error) {
	return h.wizard.AddTerm(ctx, cmd.SessionID, cmd.CategoryIndex, cmd.Term())
}

func (h *WizardHandlers) selectSource(ctx context.Context, cmd commands.SelectAssociationSourceCommand) (interface{}, error) {
	return h.wizard.SelectAssociationSource(ctx, cmd.SessionID, cmd.CategoryIndex, cmd.TermIndex)
}

func (h *WizardHandlers) toggle(ctx context.Context, cmd commands.ToggleAssociationCommand) (interface{}, error) {
	key, err := cmd.Key()
	if err != nil {
		return nil, appErrors.NewValidationError(err.Error())
	}
	return h.wizard.ToggleAssociation(ctx, cmd.SessionID, key)
}

func (h *WizardHandlers) saveAssociations(ctx context.Context, cmd commands.SaveAssociationsCommand) (interface{}, error) {
	return h.wizard.SaveAssociations(ctx, cmd.SessionID)
}

func (h *WizardHandlers) advance(ctx context.Context, cmd commands.AdvanceCommand) (interface{}, error) {
	return h.wizard.Advance(ctx, cmd.SessionID)
}

func (h *WizardHandlers) retreat(ctx context.Context, cmd commands.RetreatCommand) (interface{}, error) {
	return h.wizard.Retreat(ctx, cmd.SessionID)
}
