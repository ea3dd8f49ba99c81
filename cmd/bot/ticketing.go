package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/ticketwolf/pkg/apperr"
	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
	"github.com/Jacobbrewer1/ticketwolf/pkg/router"
	"github.com/Jacobbrewer1/ticketwolf/pkg/tickets"
)

// ticketCmdController runs the ticket commands against the ticket of the current channel. The
// button actions are reused so commands and buttons answer the same way.
func (a *App) ticketCmdController(ctx context.Context, ix *platform.Interaction) error {
	t, err := a.tickets.Lookup(ctx, ix.ChannelID)
	if err != nil {
		return err
	}

	sub := subcommand(ix)
	switch sub.Name {
	case closeSubCmd, reopenSubCmd, claimSubCmd, unclaimSubCmd, deleteSubCmd, transcriptSubCmd:
		return a.tickets.Execute(ctx, ix, router.Action{
			System: tickets.System,
			Name:   sub.Name,
			Args:   []string{t.ID},
		})
	case renameSubCmd:
		return a.replyResult(ctx, ix, "Ticket renamed.", func(actor tickets.Actor) (*tickets.Result, error) {
			return a.tickets.Rename(ctx, actor, t.ID, stringOption(sub, nameOption))
		})
	case addUserSubCmd:
		userID := userOption(sub, userOptName)
		return a.replyResult(ctx, ix, fmt.Sprintf("<@%s> was added to this ticket.", userID), func(actor tickets.Actor) (*tickets.Result, error) {
			return a.tickets.AddUser(ctx, actor, t.ID, userID)
		})
	default:
		return fmt.Errorf("unhandled sub command %s", sub.Name)
	}
}

func (a *App) ticketsCmdController(ctx context.Context, ix *platform.Interaction) error {
	sub := subcommand(ix)
	if sub.Name != clearSubCmd {
		return fmt.Errorf("unhandled sub command %s", sub.Name)
	}

	userID := userOption(sub, userOptName)
	if err := ix.DeferReply(ctx, true); err != nil {
		return err
	}
	res, err := a.tickets.ClearUser(ctx, tickets.ActorFrom(ix), ix.GuildID, userID)
	if err != nil {
		return err
	}
	return ix.Reply(ctx, platform.Ephemeral(res.Message(fmt.Sprintf("Deleted %d tickets of <@%s>.", res.Cleared, userID))))
}

// replyResult runs a ticket operation behind a deferred ephemeral reply.
func (a *App) replyResult(ctx context.Context, ix *platform.Interaction, success string, op func(actor tickets.Actor) (*tickets.Result, error)) error {
	if err := ix.DeferReply(ctx, true); err != nil {
		return err
	}
	res, err := op(tickets.ActorFrom(ix))
	if err != nil {
		return err
	}
	if !res.Committed {
		success = ""
	}
	return ix.Reply(ctx, platform.Ephemeral(res.Message(success)))
}

// messageCommand is a prefix command run in a ticket channel.
type messageCommand func(ctx context.Context, actor tickets.Actor, t *entities.Ticket, args []string) (*tickets.Result, string, error)

func (a *App) ticketMessageCommands() map[string]messageCommand {
	return map[string]messageCommand{
		closeSubCmd: func(ctx context.Context, actor tickets.Actor, t *entities.Ticket, _ []string) (*tickets.Result, string, error) {
			res, err := a.tickets.Close(ctx, actor, t.ID)
			return res, "Ticket closed successfully.", err
		},
		reopenSubCmd: func(ctx context.Context, actor tickets.Actor, t *entities.Ticket, _ []string) (*tickets.Result, string, error) {
			res, err := a.tickets.Reopen(ctx, actor, t.ID)
			return res, "Ticket reopened successfully.", err
		},
		claimSubCmd: func(ctx context.Context, actor tickets.Actor, t *entities.Ticket, _ []string) (*tickets.Result, string, error) {
			res, err := a.tickets.Claim(ctx, actor, t.ID)
			return res, fmt.Sprintf("<@%s> will be handling this ticket.", actor.UserID), err
		},
		unclaimSubCmd: func(ctx context.Context, actor tickets.Actor, t *entities.Ticket, _ []string) (*tickets.Result, string, error) {
			res, err := a.tickets.Unclaim(ctx, actor, t.ID)
			return res, "Ticket unclaimed.", err
		},
		renameSubCmd: func(ctx context.Context, actor tickets.Actor, t *entities.Ticket, args []string) (*tickets.Result, string, error) {
			if len(args) == 0 {
				return nil, "", apperr.Invalid("Usage: rename <name>")
			}
			res, err := a.tickets.Rename(ctx, actor, t.ID, strings.Join(args, " "))
			return res, "Ticket renamed.", err
		},
		addUserSubCmd: func(ctx context.Context, actor tickets.Actor, t *entities.Ticket, args []string) (*tickets.Result, string, error) {
			if len(args) == 0 {
				return nil, "", apperr.Invalid("Usage: adduser <@user>")
			}
			userID := mentionedUser(args[0])
			res, err := a.tickets.AddUser(ctx, actor, t.ID, userID)
			return res, fmt.Sprintf("<@%s> was added to this ticket.", userID), err
		},
		transcriptSubCmd: func(ctx context.Context, actor tickets.Actor, t *entities.Ticket, _ []string) (*tickets.Result, string, error) {
			res, err := a.tickets.Transcript(ctx, actor, t.ID)
			return res, "Transcript created.", err
		},
	}
}

// mentionedUser reads a user id from a mention or a raw id.
func mentionedUser(arg string) string {
	arg = strings.TrimPrefix(arg, "<@")
	arg = strings.TrimPrefix(arg, "!")
	return strings.TrimSuffix(arg, ">")
}

// parseMessageCommand splits a message into a command name and its arguments when it starts with
// the prefix.
func parseMessageCommand(content, prefix string) (string, []string, bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// messageCommandHandler runs prefix commands sent in ticket channels.
func (a *App) messageCommandHandler(ctx context.Context) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot || m.GuildID == "" {
			return
		}

		name, args, ok := parseMessageCommand(m.Content, a.panels.Prefix(ctx, m.GuildID))
		if !ok {
			return
		}
		cmd, ok := a.messageCommands[name]
		if !ok {
			return
		}

		l := a.With(
			slog.String("command", name),
			slog.String(logging.KeyGuild, m.GuildID),
			slog.String(logging.KeyChannel, m.ChannelID),
			slog.String(logging.KeyUser, m.Author.ID),
		)
		start := time.Now()
		defer func() {
			monitoring.DiscordCommandDuration.WithLabelValues(name, "prefix").Observe(time.Since(start).Seconds())
		}()

		reply, err := a.runMessageCommand(ctx, m, cmd, args)
		if msg, ok := apperr.UserMessage(err); ok {
			reply = msg
		} else if err != nil {
			l.Error("Error processing message command", logging.ErrAttr(err))
			reply = router.GenericFailure
		}

		if _, err := a.s.SendMessage(ctx, m.ChannelID, &discordgo.MessageSend{
			Content:         reply,
			Reference:       m.Reference(),
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		}); err != nil {
			l.Error("Error replying to message command", logging.ErrAttr(err))
		}
	}
}

func (a *App) runMessageCommand(ctx context.Context, m *discordgo.MessageCreate, cmd messageCommand, args []string) (string, error) {
	t, err := a.tickets.Lookup(ctx, m.ChannelID)
	if err != nil {
		return "", err
	}

	actor, err := a.messageActor(m)
	if err != nil {
		return "", err
	}

	res, success, err := cmd(ctx, actor, t, args)
	if err != nil {
		return "", err
	}
	if !res.Committed {
		success = ""
	}
	return res.Message(success), nil
}

// messageActor builds the actor of a message. Messages carry no computed permissions, so they are
// resolved from the channel.
func (a *App) messageActor(m *discordgo.MessageCreate) (tickets.Actor, error) {
	perms, err := a.dg.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		return tickets.Actor{}, fmt.Errorf("error getting member permissions: %w", err)
	}

	actor := tickets.Actor{
		UserID:      m.Author.ID,
		Username:    m.Author.Username,
		Permissions: perms,
	}
	if m.Member != nil {
		actor.RoleIDs = m.Member.Roles
	}
	return actor, nil
}
