package tickets

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/apperr"
	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
	"github.com/Jacobbrewer1/ticketwolf/pkg/transcript"
	"golang.org/x/sync/errgroup"
)

const (
	triggerClose  = "close"
	triggerManual = "manual"

	// maxDeliveries bounds the concurrent sends of one transcript.
	maxDeliveries = 2
)

func metadata(t *entities.Ticket, p *entities.Panel) transcript.Metadata {
	return transcript.Metadata{
		TicketID:     t.ID,
		TicketNumber: t.Number,
		GuildID:      t.GuildID,
		OwnerID:      t.OwnerID,
		OwnerName:    t.OwnerName,
		StaffRoleID:  p.StaffRoleID,
		PanelName:    p.Name,
		ClaimedBy:    t.ClaimedBy,
		ClosedBy:     t.ClosedBy,
		CreatedAt:    t.CreatedAt.Time(),
		ClosedAt:     t.ClosedAt.Time(),
	}
}

// Transcript renders the ticket history on demand and delivers it to the transcript channel, the
// logs channel and the owner.
func (h *Handler) Transcript(ctx context.Context, actor Actor, ticketID string) (*Result, error) {
	t, err := h.ticket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	p, err := h.panelOf(ctx, t)
	if err != nil {
		return nil, err
	}
	if actor.UserID != t.OwnerID && !actor.IsStaff(p) {
		return nil, apperr.Forbidden("Only staff and the ticket owner can create a transcript.")
	}

	archive, warnings, err := h.archive(ctx, t, p, true)
	if err != nil {
		return nil, err
	}
	return &Result{Committed: true, Ticket: t, Archive: archive, Warnings: warnings}, nil
}

// archive renders a transcript and delivers it. Logs only receive manual transcripts.
func (h *Handler) archive(ctx context.Context, t *entities.Ticket, p *entities.Panel, manual bool) (*transcript.Result, []string, error) {
	trigger := triggerClose
	if manual {
		trigger = triggerManual
	}
	l := h.l.With(slog.String(logging.KeyTicket, t.ID), slog.String("trigger", trigger))

	archive, err := h.renderer.Render(ctx, t.ChannelID, metadata(t, p))
	if err != nil {
		transcriptsTotal.WithLabelValues(trigger, outcomeError).Inc()
		l.Error("Error rendering transcript", logging.ErrAttr(err))
		return nil, nil, fmt.Errorf("error rendering transcript: %w", err)
	}

	targets := map[string]string{}
	if p.TranscriptChannelID != "" {
		targets["transcript channel"] = p.TranscriptChannelID
	}
	if manual && p.LogsChannelID != "" {
		targets["logs channel"] = p.LogsChannelID
	}

	var (
		mu       sync.Mutex
		warnings []string
	)
	g := new(errgroup.Group)
	g.SetLimit(maxDeliveries)
	// Deliveries do not cancel each other, a closed DM must not stop the channel copies.
	deliver := func(target string, send func() error) {
		g.Go(func() error {
			if err := send(); err != nil {
				sideEffectFailures.WithLabelValues("transcript").Inc()
				l.Warn("Error delivering transcript", slog.String("target", target), logging.ErrAttr(err))
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf("The transcript could not be sent to the %s.", target))
				mu.Unlock()
				return fmt.Errorf("error sending transcript to the %s: %w", target, err)
			}
			return nil
		})
	}

	for target, channelID := range targets {
		channelID := channelID
		deliver(target, func() error {
			_, err := h.s.SendMessage(ctx, channelID, archiveMessage(archive))
			return err
		})
	}
	deliver("owner", func() error {
		dm, err := h.s.DirectChannel(ctx, t.OwnerID)
		if err != nil {
			return err
		}
		_, err = h.s.SendMessage(ctx, dm.ID, archiveMessage(archive))
		return err
	})

	outcome := outcomeSuccess
	if err := g.Wait(); err != nil {
		outcome = outcomePartial
		l.Warn("Transcript was not delivered everywhere", slog.Int("failures", len(warnings)), logging.ErrAttr(err))
	}
	sort.Strings(warnings)

	transcriptsTotal.WithLabelValues(trigger, outcome).Inc()
	l.Info("Transcript delivered", slog.Int("messages", archive.MessageCount), slog.Int("failures", len(warnings)))
	return archive, warnings, nil
}

func archiveMessage(archive *transcript.Result) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{archive.Summary},
		Files:  []*discordgo.File{archive.File()},
	}
}
