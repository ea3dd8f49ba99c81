package tickets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/apperr"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
	"github.com/Jacobbrewer1/ticketwolf/pkg/router"
)

// Execute handles the routed ticket actions. The record id is carried in the action arguments.
func (h *Handler) Execute(ctx context.Context, ix *platform.Interaction, a router.Action) error {
	err := h.dispatch(ctx, ix, a, strings.Join(a.Args, router.Delimiter))
	return h.userError(ctx, ix, err)
}

func (h *Handler) dispatch(ctx context.Context, ix *platform.Interaction, a router.Action, id string) error {
	switch a.Name {
	case "open":
		return h.open(ctx, ix, id)
	case "questions":
		return h.submitQuestions(ctx, ix, id)
	case "close":
		return h.respond(ctx, ix, "Ticket closed successfully.", func(actor Actor) (*Result, error) {
			return h.Close(ctx, actor, id)
		})
	case "reopen":
		return h.respond(ctx, ix, "Ticket reopened successfully.", func(actor Actor) (*Result, error) {
			return h.Reopen(ctx, actor, id)
		})
	case "claim":
		return h.respond(ctx, ix, "You have claimed this ticket.", func(actor Actor) (*Result, error) {
			return h.Claim(ctx, actor, id)
		})
	case "unclaim":
		return h.respond(ctx, ix, "You have unclaimed this ticket.", func(actor Actor) (*Result, error) {
			return h.Unclaim(ctx, actor, id)
		})
	case "delete":
		return h.confirmDelete(ctx, ix, id)
	case "deleteconfirm":
		return h.respond(ctx, ix, "Ticket deleted.", func(actor Actor) (*Result, error) {
			return h.Delete(ctx, actor, id)
		})
	case "transcript":
		return h.transcript(ctx, ix, id)
	default:
		h.l.Warn("Unknown ticket action", slog.String(logging.KeyAction, a.Name))
		return nil
	}
}

// userError shows known errors to the user and passes everything else on.
func (h *Handler) userError(ctx context.Context, ix *platform.Interaction, err error) error {
	msg, ok := apperr.UserMessage(err)
	if !ok {
		return err
	}
	if err := ix.Reply(ctx, platform.Ephemeral(msg)); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}

// respond runs a lifecycle operation behind an ephemeral deferred reply.
func (h *Handler) respond(ctx context.Context, ix *platform.Interaction, success string, op func(actor Actor) (*Result, error)) error {
	if !ix.Acknowledged() {
		if err := ix.DeferReply(ctx, true); err != nil {
			return err
		}
	}

	res, err := op(ActorFrom(ix))
	if err != nil {
		return err
	}
	return ix.Reply(ctx, platform.Ephemeral(res.Message(success)))
}

// confirmDelete asks before a ticket is deleted.
func (h *Handler) confirmDelete(ctx context.Context, ix *platform.Interaction, id string) error {
	t, err := h.CanDelete(ctx, ActorFrom(ix), id)
	if err != nil {
		return err
	}

	data := platform.Ephemeral(fmt.Sprintf("Delete ticket #%d? The channel and its history will be removed.", t.Number))
	data.Components = []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				ticketButton("Delete", DeleteEmoji, discordgo.DangerButton, actionID("deleteconfirm", t)),
			},
		},
	}
	return ix.Reply(ctx, data)
}

func (h *Handler) transcript(ctx context.Context, ix *platform.Interaction, id string) error {
	if err := ix.DeferReply(ctx, true); err != nil {
		return err
	}

	res, err := h.Transcript(ctx, ActorFrom(ix), id)
	if err != nil {
		return err
	}
	data := platform.Ephemeral(res.Message("Transcript created."), res.Archive.Summary)
	data.Files = []*discordgo.File{res.Archive.File()}
	return ix.Reply(ctx, data)
}
