// Package tickets implements the ticket lifecycle: open, close, reopen, claim, unclaim, delete and
// the transcript archive. The store write is the commit point of every transition. Channel and
// message side effects after it are best-effort and come back as warnings.
package tickets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/apperr"
	"github.com/Jacobbrewer1/ticketwolf/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/Jacobbrewer1/ticketwolf/pkg/governor"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
	"github.com/Jacobbrewer1/ticketwolf/pkg/panels"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
	"github.com/Jacobbrewer1/ticketwolf/pkg/transcript"
)

const (
	// System is the router system of the ticket handler.
	System = panels.TicketSystem

	// DefaultNoticeDelay is how long the closing notice stays in the channel.
	DefaultNoticeDelay = 5 * time.Second
)

// Actor is the user performing a ticket operation.
type Actor struct {
	UserID      string
	Username    string
	RoleIDs     []string
	Permissions int64
}

// ActorFrom reads the actor of an interaction.
func ActorFrom(ix *platform.Interaction) Actor {
	user := ix.User()
	return Actor{
		UserID:      user.ID,
		Username:    user.Username,
		RoleIDs:     ix.RoleIDs(),
		Permissions: ix.Permissions(),
	}
}

// HasOverride reports whether the actor can manage any ticket regardless of panel roles.
func (a Actor) HasOverride() bool {
	return a.Permissions&(discordgo.PermissionManageChannels|discordgo.PermissionAdministrator) != 0
}

// HasRole reports whether the actor holds the role.
func (a Actor) HasRole(roleID string) bool {
	if roleID == "" {
		return false
	}
	for _, r := range a.RoleIDs {
		if r == roleID {
			return true
		}
	}
	return false
}

// IsStaff reports whether the actor has staff standing on the panel.
func (a Actor) IsStaff(p *entities.Panel) bool {
	return a.HasOverride() || a.HasRole(p.StaffRoleID)
}

// Result is the outcome of a lifecycle operation.
type Result struct {
	// Committed is set when the store write went through.
	Committed bool

	// Ticket is the ticket after the operation.
	Ticket *entities.Ticket

	// Cleared is the number of tickets removed by ClearUser.
	Cleared int

	// Archive is the transcript rendered by Transcript.
	Archive *transcript.Result

	// Warnings describe side effects that failed after the commit.
	Warnings []string
}

func (r *Result) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Message renders the result for the user, followed by its warnings.
func (r *Result) Message(success string) string {
	if len(r.Warnings) == 0 {
		return success
	}
	lines := make([]string, 0, len(r.Warnings)+1)
	if success != "" {
		lines = append(lines, success)
	}
	for _, w := range r.Warnings {
		lines = append(lines, WarningEmoji+" "+w)
	}
	return strings.Join(lines, "\n")
}

// Handler runs the ticket lifecycle.
type Handler struct {
	l        *slog.Logger
	s        platform.Session
	tickets  dataaccess.TicketDal
	panels   dataaccess.PanelDal
	svc      *panels.Service
	gov      *governor.Governor
	renderer transcript.Renderer

	locks       *keyedMutex
	wg          sync.WaitGroup
	noticeDelay time.Duration
	now         func() time.Time
}

type Option func(h *Handler)

// WithNoticeDelay sets how long the closing notice stays before it is deleted.
func WithNoticeDelay(d time.Duration) Option {
	return func(h *Handler) {
		h.noticeDelay = d
	}
}

// WithClock sets the clock used for ticket timestamps.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// New creates a new Handler.
func New(l *slog.Logger, s platform.Session, ticketDal dataaccess.TicketDal, panelDal dataaccess.PanelDal, svc *panels.Service,
	gov *governor.Governor, renderer transcript.Renderer, opts ...Option) *Handler {
	h := &Handler{
		l:           l.With(slog.String(logging.KeySystem, System)),
		s:           s,
		tickets:     ticketDal,
		panels:      panelDal,
		svc:         svc,
		gov:         gov,
		renderer:    renderer,
		locks:       newKeyedMutex(),
		noticeDelay: DefaultNoticeDelay,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Wait blocks until background work (transcripts, notice clean up) has finished.
func (h *Handler) Wait() {
	h.wg.Wait()
}

// background runs fn detached from the caller's cancellation.
func (h *Handler) background(ctx context.Context, fn func(ctx context.Context)) {
	ctx = context.WithoutCancel(ctx)
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				h.l.Error("Panic in background ticket work", slog.Any("panic", r))
			}
		}()
		fn(ctx)
	}()
}

func ticketKey(id string) string {
	return "ticket/" + id
}

func ownerKey(ownerID, panelID string) string {
	return "owner/" + ownerID + "/" + panelID
}

// Lookup returns the ticket backed by a channel.
func (h *Handler) Lookup(ctx context.Context, channelID string) (*entities.Ticket, error) {
	t, err := h.tickets.GetTicketByChannel(ctx, channelID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return nil, apperr.NotFound("This channel is not a ticket.")
	} else if err != nil {
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}
	return t, nil
}

func (h *Handler) ticket(ctx context.Context, id string) (*entities.Ticket, error) {
	t, err := h.tickets.GetTicket(ctx, id)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return nil, apperr.NotFound("This ticket no longer exists.")
	} else if err != nil {
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}
	return t, nil
}

// panelOf returns the panel of a ticket. A deleted panel leaves a zero panel so only override
// holders keep staff standing.
func (h *Handler) panelOf(ctx context.Context, t *entities.Ticket) (*entities.Panel, error) {
	p, err := h.panels.GetPanel(ctx, t.PanelID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		h.l.Warn("Ticket panel no longer exists",
			slog.String(logging.KeyTicket, t.ID), slog.String(logging.KeyPanel, t.PanelID))
		return &entities.Panel{ID: t.PanelID, GuildID: t.GuildID, Name: "Deleted panel"}, nil
	} else if err != nil {
		return nil, fmt.Errorf("error getting panel: %w", err)
	}
	return p, nil
}

// rename renames a channel through the governor.
func (h *Handler) rename(ctx context.Context, channelID, name string) governor.Outcome {
	return h.gov.Do(ctx, channelID, "rename", func(ctx context.Context) error {
		return h.s.RenameChannel(ctx, channelID, name)
	})
}

// move moves a channel to a category through the governor.
func (h *Handler) move(ctx context.Context, channelID, parentID string) governor.Outcome {
	return h.gov.Do(ctx, channelID, "move", func(ctx context.Context) error {
		return h.s.MoveChannel(ctx, channelID, parentID)
	})
}

// channelName returns the current name of a ticket channel, falling back to the name the ticket
// state implies.
func (h *Handler) channelName(ctx context.Context, t *entities.Ticket, claimer string) string {
	ch, err := h.s.Channel(ctx, t.ChannelID)
	if err == nil && ch.Name != "" {
		return ch.Name
	}
	if err != nil {
		h.l.Debug("Error getting ticket channel", slog.String(logging.KeyTicket, t.ID), logging.ErrAttr(err))
	}
	if claimer != "" {
		return claimedName(claimer)
	}
	return t.Name()
}

// ownerOverwrite is the permission overwrite of the ticket owner.
func ownerOverwrite(p *entities.Panel, userID string) *discordgo.PermissionOverwrite {
	return &discordgo.PermissionOverwrite{
		ID:    userID,
		Type:  discordgo.PermissionOverwriteTypeMember,
		Allow: entities.PermissionBits(entities.CapabilitiesOrDefault(p.OwnerPermissions, entities.DefaultOwnerCapabilities)),
	}
}

// overwrites builds the full permission set of a new ticket channel.
func (h *Handler) overwrites(p *entities.Panel, guildID, ownerID string) []*discordgo.PermissionOverwrite {
	all := entities.PermissionBits(entities.AllCapabilities)
	return []*discordgo.PermissionOverwrite{
		// Deny @everyone from seeing the ticket.
		{
			ID:   guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: all,
		},
		// The bot keeps full control of the channel.
		{
			ID:    h.s.BotUserID(),
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: all | discordgo.PermissionManageChannels | discordgo.PermissionManageRoles,
		},
		ownerOverwrite(p, ownerID),
		// Add the staff role.
		{
			ID:    p.StaffRoleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: entities.PermissionBits(entities.CapabilitiesOrDefault(p.StaffPermissions, entities.DefaultStaffCapabilities)),
		},
	}
}

// post sends a message to a channel, reporting failure as a warning.
func (h *Handler) post(ctx context.Context, res *Result, channelID, what string, msg *discordgo.MessageSend) *discordgo.Message {
	m, err := h.s.SendMessage(ctx, channelID, msg)
	if err != nil {
		sideEffectFailures.WithLabelValues(what).Inc()
		h.l.Warn("Error sending ticket message", slog.String(logging.KeyChannel, channelID),
			slog.String("message", what), logging.ErrAttr(err))
		res.warn("The %s could not be sent.", what)
		return nil
	}
	return m
}

// logEvent posts to the panel's logs channel when one is configured.
func (h *Handler) logEvent(ctx context.Context, res *Result, p *entities.Panel, embed *discordgo.MessageEmbed) {
	if p.LogsChannelID == "" {
		return
	}
	h.post(ctx, res, p.LogsChannelID, "log notification", &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
}
