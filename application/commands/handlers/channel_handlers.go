package handlers

import (
	"context"

	"taxonomy-console/application/commands"
	"taxonomy-console/application/commands/bus"
	"taxonomy-console/application/services"
)

// ChannelHandlers handles commands for the standalone channel page
type ChannelHandlers struct {
	catalog *services.CatalogService
}

// NewChannelHandlers creates the channel command handlers
func NewChannelHandlers(catalog *services.CatalogService) *ChannelHandlers {
	return &ChannelHandlers{catalog: catalog}
}

// Register adds the channel commands to the bus
func (h *ChannelHandlers) Register(b *bus.CommandBus) error {
	return b.Register(commands.CreateChannelCommand{}, bus.HandlerFor(h.createChannel))
}

func (h *ChannelHandlers) createChannel(ctx context.Context, cmd commands.CreateChannelCommand) (interface{}, error) {
	identifier, err := h.catalog.CreateChannel(ctx, cmd.Channel())
	if err != nil {
		return nil, err
	}
	return &commands.CreateChannelResult{Identifier: identifier}, nil
}
