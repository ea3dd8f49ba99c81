package main

import (
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
)

// guildJoinedHandler counts the guild and makes sure it has the slash commands. It also fires for
// every guild the bot is already in when the gateway connects.
func (a *App) guildJoinedHandler() func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(_ *discordgo.Session, g *discordgo.GuildCreate) {
		a.Info("Joined guild", slog.String(logging.KeyGuild, g.ID), slog.String("name", g.Name))

		// Increment the total number of guilds.
		monitoring.TotalDiscordGuilds.Inc()

		if err := a.registerGuildCommands(g.ID); err != nil {
			a.Error("Error registering slash commands", slog.String(logging.KeyGuild, g.ID), logging.ErrAttr(err))
		}
	}
}

func (a *App) guildLeaveHandler() func(s *discordgo.Session, g *discordgo.GuildDelete) {
	return func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		// An outage makes the guild unavailable without the bot leaving it.
		if g.Unavailable {
			return
		}
		a.Info("Left guild", slog.String(logging.KeyGuild, g.ID))

		// Decrement the total number of guilds.
		monitoring.TotalDiscordGuilds.Dec()
		a.registered.Delete(g.ID)
	}
}
