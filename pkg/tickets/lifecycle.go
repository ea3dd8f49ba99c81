package tickets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/apperr"
	"github.com/Jacobbrewer1/ticketwolf/pkg/custom"
	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
)

// Close closes an open ticket. The owner may close when the panel allows it, staff always can.
func (h *Handler) Close(ctx context.Context, actor Actor, ticketID string) (*Result, error) {
	unlock := h.locks.Lock(ticketKey(ticketID))
	defer unlock()

	t, err := h.ticket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !t.IsOpen() {
		return nil, apperr.Conflict("This ticket is already closed.")
	}

	p, err := h.panelOf(ctx, t)
	if err != nil {
		return nil, err
	}
	if !(actor.UserID == t.OwnerID && p.OwnerCanClose) && !actor.IsStaff(p) {
		return nil, apperr.Forbidden("Only staff can close this ticket.")
	}

	name := h.channelName(ctx, t, t.ClaimedBy)

	t.State = entities.TicketClosed
	t.ClosedAt = custom.Datetime(h.now().UTC())
	t.ClosedBy = actor.UserID
	if err := h.tickets.SaveTicket(ctx, t); err != nil {
		return nil, fmt.Errorf("error saving ticket: %w", err)
	}
	res := &Result{Committed: true, Ticket: t}
	l := h.l.With(slog.String(logging.KeyTicket, t.ID))

	// Post the notice first so the channel shows something while the governed operations wait.
	if notice := h.post(ctx, res, t.ChannelID, "closing notice", &discordgo.MessageSend{
		Content: "Closing ticket...",
	}); notice != nil {
		h.deleteLater(ctx, t.ChannelID, notice.ID)
	}

	if out := h.rename(ctx, t.ChannelID, closedName(name)); !out.Success {
		sideEffectFailures.WithLabelValues("rename").Inc()
		res.warn("The channel could not be renamed.")
	}
	if p.CloseCategoryID != "" {
		if out := h.move(ctx, t.ChannelID, p.CloseCategoryID); !out.Success {
			sideEffectFailures.WithLabelValues("move").Inc()
			res.warn("The channel could not be moved to the closed category.")
		}
	}

	// Hide the channel from the owner, staff keep the history.
	if err := h.s.DeletePermission(ctx, t.ChannelID, t.OwnerID); err != nil {
		sideEffectFailures.WithLabelValues("permissions").Inc()
		l.Warn("Error removing owner permissions", logging.ErrAttr(err))
		res.warn("The owner could not be removed from the channel.")
	}

	h.updateWelcome(ctx, res, t, p, actor.Username)

	if msg := h.post(ctx, res, t.ChannelID, "close message", closeStatusMessage(t, actor.UserID)); msg != nil {
		t.CloseMessageID = msg.ID
		if err := h.tickets.SaveTicket(ctx, t); err != nil {
			l.Warn("Error saving close message id", logging.ErrAttr(err))
		}
	}

	h.logEvent(ctx, res, p, logEmbed("Ticket closed", t, actor.UserID, colorClosed))

	closed := *t
	h.background(ctx, func(ctx context.Context) {
		h.archive(ctx, &closed, p, false)
	})

	ticketEvents.WithLabelValues("close").Inc()
	l.Info("Ticket closed", slog.String(logging.KeyUser, actor.UserID), slog.Int("warnings", len(res.Warnings)))
	return res, nil
}

// Reopen reverses Close.
func (h *Handler) Reopen(ctx context.Context, actor Actor, ticketID string) (*Result, error) {
	unlock := h.locks.Lock(ticketKey(ticketID))
	defer unlock()

	t, err := h.ticket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t.IsOpen() {
		return nil, apperr.Conflict("This ticket is already open.")
	}

	p, err := h.panelOf(ctx, t)
	if err != nil {
		return nil, err
	}
	if !(actor.UserID == t.OwnerID && p.OwnerCanClose) && !actor.IsStaff(p) {
		return nil, apperr.Forbidden("Only staff can reopen this ticket.")
	}

	ownerUnlock := h.locks.Lock(ownerKey(t.OwnerID, t.PanelID))
	defer ownerUnlock()
	if err := h.ensureNoOpenTicket(ctx, t.OwnerID, t.PanelID); apperr.KindOf(err) == apperr.KindStateConflict {
		return nil, apperr.Conflict("The owner already has another open ticket on this panel.")
	} else if err != nil {
		return nil, err
	}

	name := h.channelName(ctx, t, t.ClaimedBy)
	closeMessageID := t.CloseMessageID

	t.State = entities.TicketOpen
	t.ClosedAt = custom.Datetime{}
	t.ClosedBy = ""
	t.CloseMessageID = ""
	if err := h.tickets.SaveTicket(ctx, t); err != nil {
		return nil, fmt.Errorf("error saving ticket: %w", err)
	}
	res := &Result{Committed: true, Ticket: t}
	l := h.l.With(slog.String(logging.KeyTicket, t.ID))

	if closeMessageID != "" {
		if err := h.s.DeleteMessage(ctx, t.ChannelID, closeMessageID); err != nil {
			l.Debug("Error deleting close message", logging.ErrAttr(err))
		}
	}

	if out := h.rename(ctx, t.ChannelID, reopenedName(name)); !out.Success {
		sideEffectFailures.WithLabelValues("rename").Inc()
		res.warn("The channel could not be renamed.")
	}
	if p.OpenCategoryID != "" {
		if out := h.move(ctx, t.ChannelID, p.OpenCategoryID); !out.Success {
			sideEffectFailures.WithLabelValues("move").Inc()
			res.warn("The channel could not be moved back to the open category.")
		}
	}

	if err := h.s.SetPermission(ctx, t.ChannelID, ownerOverwrite(p, t.OwnerID)); err != nil {
		sideEffectFailures.WithLabelValues("permissions").Inc()
		l.Warn("Error restoring owner permissions", logging.ErrAttr(err))
		res.warn("The owner could not be added back to the channel.")
	}

	h.updateWelcome(ctx, res, t, p, "")

	h.post(ctx, res, t.ChannelID, "reopen message",
		statusMessage("Ticket reopened", fmt.Sprintf("This ticket was reopened by <@%s>.", actor.UserID), colorOpen))
	h.logEvent(ctx, res, p, logEmbed("Ticket reopened", t, actor.UserID, colorOpen))

	ticketEvents.WithLabelValues("reopen").Inc()
	l.Info("Ticket reopened", slog.String(logging.KeyUser, actor.UserID), slog.Int("warnings", len(res.Warnings)))
	return res, nil
}

// Claim marks the actor as the handler of the ticket.
func (h *Handler) Claim(ctx context.Context, actor Actor, ticketID string) (*Result, error) {
	unlock := h.locks.Lock(ticketKey(ticketID))
	defer unlock()

	t, err := h.ticket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	p, err := h.panelOf(ctx, t)
	if err != nil {
		return nil, err
	}

	switch {
	case !p.Claimable:
		return nil, apperr.Invalid("Tickets of this panel cannot be claimed.")
	case t.ClaimedBy == actor.UserID:
		return nil, apperr.Conflict("You have already claimed this ticket.")
	case t.ClaimedBy != "":
		return nil, apperr.Conflict("This ticket is already claimed by <@%s>.", t.ClaimedBy)
	case !actor.IsStaff(p):
		return nil, apperr.Forbidden("You need the staff role to claim tickets. [<@&%s>]", p.StaffRoleID)
	}

	t.ClaimedBy = actor.UserID
	if err := h.tickets.SaveTicket(ctx, t); err != nil {
		return nil, fmt.Errorf("error saving ticket: %w", err)
	}
	res := &Result{Committed: true, Ticket: t}

	name := claimedName(actor.Username)
	if !t.IsOpen() {
		name = closedName(name)
	}
	if out := h.rename(ctx, t.ChannelID, name); !out.Success {
		sideEffectFailures.WithLabelValues("rename").Inc()
		res.warn("The channel could not be renamed.")
	}

	h.updateWelcome(ctx, res, t, p, "")
	h.post(ctx, res, t.ChannelID, "claim message",
		statusMessage("Ticket claimed", fmt.Sprintf("<@%s> will be handling this ticket.", actor.UserID), colorClaimed))

	ticketEvents.WithLabelValues("claim").Inc()
	h.l.Info("Ticket claimed", slog.String(logging.KeyTicket, t.ID), slog.String(logging.KeyUser, actor.UserID))
	return res, nil
}

// Unclaim releases a claimed ticket. Only the claimant or an override holder can unclaim.
func (h *Handler) Unclaim(ctx context.Context, actor Actor, ticketID string) (*Result, error) {
	unlock := h.locks.Lock(ticketKey(ticketID))
	defer unlock()

	t, err := h.ticket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	p, err := h.panelOf(ctx, t)
	if err != nil {
		return nil, err
	}

	switch {
	case t.ClaimedBy == "":
		return nil, apperr.Conflict("This ticket is not claimed.")
	case t.ClaimedBy != actor.UserID && !actor.HasOverride():
		return nil, apperr.Forbidden("Only <@%s> can unclaim this ticket.", t.ClaimedBy)
	}

	t.ClaimedBy = ""
	if err := h.tickets.SaveTicket(ctx, t); err != nil {
		return nil, fmt.Errorf("error saving ticket: %w", err)
	}
	res := &Result{Committed: true, Ticket: t}

	name := t.Name()
	if !t.IsOpen() {
		name = closedName(name)
	}
	if out := h.rename(ctx, t.ChannelID, name); !out.Success {
		sideEffectFailures.WithLabelValues("rename").Inc()
		res.warn("The channel could not be renamed.")
	}

	h.updateWelcome(ctx, res, t, p, "")
	h.post(ctx, res, t.ChannelID, "unclaim message",
		statusMessage("Ticket unclaimed", fmt.Sprintf("<@%s> is no longer handling this ticket.", actor.UserID), colorNeutral))

	ticketEvents.WithLabelValues("unclaim").Inc()
	h.l.Info("Ticket unclaimed", slog.String(logging.KeyTicket, t.ID), slog.String(logging.KeyUser, actor.UserID))
	return res, nil
}

// updateWelcome swaps the button set of the welcome message to match the ticket. Closing with a
// closer name adds a footer note, an open ticket gets the plain footer back.
func (h *Handler) updateWelcome(ctx context.Context, res *Result, t *entities.Ticket, p *entities.Panel, closer string) {
	if t.WelcomeMessageID == "" {
		return
	}
	l := h.l.With(slog.String(logging.KeyTicket, t.ID))

	msg, err := h.s.Message(ctx, t.ChannelID, t.WelcomeMessageID)
	if err != nil {
		sideEffectFailures.WithLabelValues("welcome").Inc()
		l.Warn("Error getting welcome message", logging.ErrAttr(err))
		res.warn("The ticket buttons could not be updated.")
		return
	}

	embeds := msg.Embeds
	if len(embeds) > 0 && (t.IsOpen() || closer != "") {
		embed := *embeds[0]
		footer := p.Name
		if !t.IsOpen() {
			footer = fmt.Sprintf("%s • %s%s", p.Name, closedFooterPrefix, closer)
		}
		embed.Footer = &discordgo.MessageEmbedFooter{Text: footer}
		embeds = append([]*discordgo.MessageEmbed{&embed}, embeds[1:]...)
	}

	_, err = h.s.EditMessage(ctx, &discordgo.MessageEdit{
		Channel:    t.ChannelID,
		ID:         t.WelcomeMessageID,
		Embeds:     embeds,
		Components: buttonsFor(t, p),
	})
	if err != nil {
		sideEffectFailures.WithLabelValues("welcome").Inc()
		l.Warn("Error editing welcome message", logging.ErrAttr(err))
		res.warn("The ticket buttons could not be updated.")
	}
}

// deleteLater removes a message once the notice delay has passed.
func (h *Handler) deleteLater(ctx context.Context, channelID, messageID string) {
	h.background(ctx, func(ctx context.Context) {
		timer := time.NewTimer(h.noticeDelay)
		defer timer.Stop()
		<-timer.C
		if err := h.s.DeleteMessage(ctx, channelID, messageID); err != nil {
			h.l.Debug("Error deleting notice", slog.String(logging.KeyChannel, channelID), logging.ErrAttr(err))
		}
	})
}
