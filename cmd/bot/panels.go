package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
)

// maxListedPanels keeps the panel list within one embed description.
const maxListedPanels = 25

func (a *App) panelCmdController(ctx context.Context, ix *platform.Interaction) error {
	if err := requireManager(ix); err != nil {
		return err
	}

	sub := subcommand(ix)
	switch sub.Name {
	case createSubCmd:
		return a.wizard.Start(ctx, ix, "")
	case editSubCmd:
		return a.wizard.Start(ctx, ix, stringOption(sub, idOption))
	case deleteSubCmd:
		return a.deletePanel(ctx, ix, stringOption(sub, idOption))
	case listSubCmd:
		return a.listPanels(ctx, ix)
	default:
		return fmt.Errorf("unhandled sub command %s", sub.Name)
	}
}

func (a *App) deletePanel(ctx context.Context, ix *platform.Interaction, panelID string) error {
	p, err := a.panels.Delete(ctx, ix.GuildID, panelID)
	if err != nil {
		return err
	}
	a.Info("Panel deleted",
		slog.String(logging.KeyPanel, p.ID),
		slog.String(logging.KeyGuild, ix.GuildID),
		slog.String(logging.KeyUser, ix.User().ID),
	)
	return ix.Reply(ctx, platform.Ephemeral(fmt.Sprintf("Panel **%s** (`%s`) was deleted.", p.Name, p.ID)))
}

func (a *App) listPanels(ctx context.Context, ix *platform.Interaction) error {
	ps, err := a.panels.List(ctx, ix.GuildID)
	if err != nil {
		return err
	}
	if len(ps) == 0 {
		return ix.Reply(ctx, platform.Ephemeral("This server has no panels yet. Use `/panel create` to make one."))
	}

	lines := make([]string, 0, len(ps))
	for i, p := range ps {
		if i == maxListedPanels {
			lines = append(lines, fmt.Sprintf("...and %d more", len(ps)-maxListedPanels))
			break
		}
		lines = append(lines, panelLine(p))
	}

	return ix.Reply(ctx, platform.Ephemeral("", &discordgo.MessageEmbed{
		Title:       "Panels",
		Description: strings.Join(lines, "\n"),
	}))
}

func panelLine(p *entities.Panel) string {
	status := "enabled"
	if !p.Enabled {
		status = "disabled"
	}
	channel := "no channel"
	if p.ChannelID != "" {
		channel = "<#" + p.ChannelID + ">"
	}
	return fmt.Sprintf("`%s` **%s** in %s, %d tickets, %s", p.ID, p.Name, channel, p.TicketsCreated, status)
}
