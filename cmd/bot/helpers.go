package main

import (
	"context"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/apperr"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
	"github.com/Jacobbrewer1/ticketwolf/pkg/router"
)

var errGuildOnly = apperr.Invalid("This command can only be used in a server.")

// respondError shows known errors to the user. Anything else is logged and answered with the
// generic failure notice.
func (a *App) respondError(ctx context.Context, l *slog.Logger, ix *platform.Interaction, err error) {
	msg, ok := apperr.UserMessage(err)
	if !ok {
		l.Error("Error processing command", logging.ErrAttr(err))
		msg = router.GenericFailure
	}
	if err := ix.Reply(ctx, platform.Ephemeral(msg)); err != nil {
		l.Error("Error responding to interaction", logging.ErrAttr(err))
	}
}

// subcommand returns the sub command of a slash command.
func subcommand(ix *platform.Interaction) *discordgo.ApplicationCommandInteractionDataOption {
	opts := ix.ApplicationCommandData().Options
	if len(opts) == 0 {
		return new(discordgo.ApplicationCommandInteractionDataOption)
	}
	return opts[0]
}

// optionMap indexes the options of a sub command by name.
func optionMap(sub *discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(sub.Options))
	for _, opt := range sub.Options {
		m[opt.Name] = opt
	}
	return m
}

// stringOption returns a string option, or "" when it was not given.
func stringOption(sub *discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := optionMap(sub)[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// userOption returns the id of a user option, or "" when it was not given.
func userOption(sub *discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := optionMap(sub)[name]; ok {
		return opt.UserValue(nil).ID
	}
	return ""
}

// requireManager rejects members without the manage channels permission.
func requireManager(ix *platform.Interaction) error {
	if ix.Permissions()&(discordgo.PermissionManageChannels|discordgo.PermissionAdministrator) == 0 {
		return apperr.Forbidden("You need the Manage Channels permission to use this command.")
	}
	return nil
}
