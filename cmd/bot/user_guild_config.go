package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
)

func (a *App) templateCmdController(ctx context.Context, ix *platform.Interaction) error {
	if err := requireManager(ix); err != nil {
		return err
	}

	sub := subcommand(ix)
	user := ix.User()
	switch sub.Name {
	case saveSubCmd:
		t, err := a.panels.SaveTemplate(ctx, ix.GuildID, stringOption(sub, panelOption), user.ID)
		if err != nil {
			return err
		}
		return ix.Reply(ctx, platform.Ephemeral(fmt.Sprintf(
			"Saved **%s** as template `%s`. Use `/template import %s` in any server to copy it.", t.Name, t.Code, t.Code)))
	case importSubCmd:
		p, err := a.panels.ImportTemplate(ctx, ix.GuildID, stringOption(sub, codeOption))
		if err != nil {
			return err
		}
		return ix.Reply(ctx, platform.Ephemeral(fmt.Sprintf(
			"Imported **%s** as panel `%s`. It is disabled until you finish it with `/panel edit %s`.", p.Name, p.ID, p.ID)))
	case listSubCmd:
		return a.listTemplates(ctx, ix, user.ID)
	case deleteSubCmd:
		code := stringOption(sub, codeOption)
		if err := a.panels.DeleteTemplate(ctx, code, user.ID); err != nil {
			return err
		}
		return ix.Reply(ctx, platform.Ephemeral(fmt.Sprintf("Template `%s` was deleted.", strings.ToUpper(code))))
	default:
		return fmt.Errorf("unhandled sub command %s", sub.Name)
	}
}

func (a *App) listTemplates(ctx context.Context, ix *platform.Interaction, userID string) error {
	ts, err := a.panels.ListTemplates(ctx, userID)
	if err != nil {
		return err
	}
	if len(ts) == 0 {
		return ix.Reply(ctx, platform.Ephemeral("You have no templates. Use `/template save` to create one."))
	}

	lines := make([]string, 0, len(ts))
	for _, t := range ts {
		lines = append(lines, fmt.Sprintf("`%s` **%s**", t.Code, t.Name))
	}
	return ix.Reply(ctx, platform.Ephemeral("", &discordgo.MessageEmbed{
		Title:       "Your templates",
		Description: strings.Join(lines, "\n"),
	}))
}

func (a *App) prefixCmdController(ctx context.Context, ix *platform.Interaction) error {
	if err := requireManager(ix); err != nil {
		return err
	}

	sub := subcommand(ix)
	if sub.Name != setSubCmd {
		return fmt.Errorf("unhandled sub command %s", sub.Name)
	}

	prefix := strings.TrimSpace(stringOption(sub, prefixOption))
	if err := a.panels.SetPrefix(ctx, ix.GuildID, prefix); err != nil {
		return err
	}
	return ix.Reply(ctx, platform.Ephemeral(fmt.Sprintf("Message commands now use the prefix `%s`.", prefix)))
}
