package tickets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/ticketwolf/pkg/apperr"
	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
)

// requireStaff loads a ticket and its panel and checks the actor has staff standing on it.
func (h *Handler) requireStaff(ctx context.Context, actor Actor, ticketID string) (*entities.Ticket, *entities.Panel, error) {
	t, err := h.ticket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	p, err := h.panelOf(ctx, t)
	if err != nil {
		return nil, nil, err
	}
	if !actor.IsStaff(p) {
		return nil, nil, apperr.Forbidden("Only staff can do that.")
	}
	return t, p, nil
}

// CanDelete checks the actor may delete the ticket without deleting it.
func (h *Handler) CanDelete(ctx context.Context, actor Actor, ticketID string) (*entities.Ticket, error) {
	t, _, err := h.requireStaff(ctx, actor, ticketID)
	return t, err
}

// Delete removes a ticket record and its channel.
func (h *Handler) Delete(ctx context.Context, actor Actor, ticketID string) (*Result, error) {
	unlock := h.locks.Lock(ticketKey(ticketID))
	defer unlock()

	t, p, err := h.requireStaff(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	if err := h.tickets.DeleteTicket(ctx, t.ID); err != nil {
		return nil, fmt.Errorf("error deleting ticket: %w", err)
	}
	res := &Result{Committed: true, Ticket: t}
	h.removeChannel(ctx, res, t)
	h.logEvent(ctx, res, p, logEmbed("Ticket deleted", t, actor.UserID, colorClosed))

	ticketEvents.WithLabelValues("delete").Inc()
	h.l.Info("Ticket deleted", slog.String(logging.KeyTicket, t.ID), slog.String(logging.KeyUser, actor.UserID))
	return res, nil
}

func (h *Handler) removeChannel(ctx context.Context, res *Result, t *entities.Ticket) {
	err := h.s.DeleteChannel(ctx, t.ChannelID)
	h.gov.Forget(t.ChannelID)
	if err != nil && !platform.IsNotFound(err) {
		sideEffectFailures.WithLabelValues("delete_channel").Inc()
		h.l.Warn("Error deleting ticket channel", slog.String(logging.KeyTicket, t.ID), logging.ErrAttr(err))
		res.warn("The channel of ticket #%d could not be deleted.", t.Number)
	}
}

// Rename gives a ticket channel a custom name. Nothing is stored, so the result is only committed
// when the platform accepted the name.
func (h *Handler) Rename(ctx context.Context, actor Actor, ticketID, name string) (*Result, error) {
	t, _, err := h.requireStaff(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	name = sanitize(name)
	if name == fallbackName {
		return nil, apperr.Invalid("That name cannot be used for a channel.")
	}
	if !t.IsOpen() {
		name = closedName(name)
	}

	res := &Result{Ticket: t}
	if out := h.rename(ctx, t.ChannelID, name); !out.Success {
		sideEffectFailures.WithLabelValues("rename").Inc()
		res.warn("The channel could not be renamed, try again in a few minutes.")
		return res, nil
	}
	res.Committed = true
	return res, nil
}

// AddUser gives another member the owner permissions on a ticket channel.
func (h *Handler) AddUser(ctx context.Context, actor Actor, ticketID, userID string) (*Result, error) {
	t, p, err := h.requireStaff(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if userID == t.OwnerID {
		return nil, apperr.Conflict("<@%s> already owns this ticket.", userID)
	}

	if _, err := h.s.Member(ctx, t.GuildID, userID); platform.IsNotFound(err) {
		return nil, apperr.NotFound("<@%s> is not a member of this server.", userID)
	} else if err != nil {
		return nil, fmt.Errorf("error getting member: %w", err)
	}

	if err := h.s.SetPermission(ctx, t.ChannelID, ownerOverwrite(p, userID)); err != nil {
		return nil, fmt.Errorf("error adding user to ticket: %w", err)
	}
	res := &Result{Committed: true, Ticket: t}
	h.post(ctx, res, t.ChannelID, "add user message",
		statusMessage("User added", fmt.Sprintf("<@%s> was added to this ticket by <@%s>.", userID, actor.UserID), colorNeutral))

	ticketEvents.WithLabelValues("add_user").Inc()
	return res, nil
}

// ClearUser deletes every ticket a user has in a guild. It needs the manage channels permission.
func (h *Handler) ClearUser(ctx context.Context, actor Actor, guildID, userID string) (*Result, error) {
	if !actor.HasOverride() {
		return nil, apperr.Forbidden("You need the Manage Channels permission to clear tickets.")
	}

	tickets, err := h.tickets.ListUserTickets(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing tickets: %w", err)
	}

	res := &Result{Committed: true}
	for _, t := range tickets {
		unlock := h.locks.Lock(ticketKey(t.ID))
		err := h.tickets.DeleteTicket(ctx, t.ID)
		unlock()
		if err != nil {
			return res, fmt.Errorf("error deleting ticket: %w", err)
		}
		res.Cleared++
		h.removeChannel(ctx, res, t)
	}

	ticketEvents.WithLabelValues("clear").Add(float64(res.Cleared))
	h.l.Info("Cleared user tickets", slog.String(logging.KeyGuild, guildID), slog.String(logging.KeyUser, userID),
		slog.Int("count", res.Cleared))
	return res, nil
}
