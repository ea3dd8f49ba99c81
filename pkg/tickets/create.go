package tickets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/apperr"
	"github.com/Jacobbrewer1/ticketwolf/pkg/custom"
	"github.com/Jacobbrewer1/ticketwolf/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
	"github.com/Jacobbrewer1/ticketwolf/pkg/router"
)

// maxAnswerLength bounds a single question answer.
const maxAnswerLength = 1000

// openPanel returns an enabled panel that tickets can be opened from.
func (h *Handler) openPanel(ctx context.Context, guildID, panelID string) (*entities.Panel, error) {
	p, err := h.svc.Get(ctx, guildID, panelID)
	if err != nil {
		return nil, err
	}
	if !p.Enabled {
		return nil, apperr.Conflict("This panel is not accepting tickets right now.")
	}
	return p, nil
}

// ensureNoOpenTicket rejects a second open ticket for the same owner and panel.
func (h *Handler) ensureNoOpenTicket(ctx context.Context, ownerID, panelID string) error {
	existing, err := h.tickets.FindOpenTicket(ctx, ownerID, panelID)
	switch {
	case err == nil:
		return apperr.Conflict("You already have an open ticket: <#%s>.", existing.ChannelID)
	case errors.Is(err, dataaccess.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("error finding open ticket: %w", err)
	}
}

// Create opens a ticket for the actor against a panel.
func (h *Handler) Create(ctx context.Context, actor Actor, guildID, panelID string, answers []entities.Answer) (*Result, error) {
	p, err := h.openPanel(ctx, guildID, panelID)
	if err != nil {
		return nil, err
	}

	unlock := h.locks.Lock(ownerKey(actor.UserID, p.ID))
	defer unlock()

	if err := h.ensureNoOpenTicket(ctx, actor.UserID, p.ID); err != nil {
		return nil, err
	}

	id, n, err := h.tickets.NextTicketID(ctx)
	if err != nil {
		return nil, fmt.Errorf("error generating ticket id: %w", err)
	}

	t := &entities.Ticket{
		ID:        id,
		Number:    n,
		GuildID:   guildID,
		OwnerID:   actor.UserID,
		OwnerName: sanitize(actor.Username),
		PanelID:   p.ID,
		State:     entities.TicketOpen,
		Answers:   answers,
		CreatedAt: custom.Datetime(h.now().UTC()),
	}
	l := h.l.With(slog.String(logging.KeyTicket, t.ID), slog.String(logging.KeyPanel, p.ID))

	// Create the ticket channel only the staff role and the creator can see.
	ch, err := h.s.CreateChannel(ctx, guildID, discordgo.GuildChannelCreateData{
		Name:                 t.Name(),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("Ticket #%d created by %s", t.Number, actor.Username),
		ParentID:             p.OpenCategoryID,
		PermissionOverwrites: h.overwrites(p, guildID, actor.UserID),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating ticket channel: %w", err)
	}
	t.ChannelID = ch.ID

	if err := h.tickets.SaveTicket(ctx, t); err != nil {
		if err := h.s.DeleteChannel(ctx, ch.ID); err != nil {
			l.Warn("Error removing channel of unsaved ticket", logging.ErrAttr(err))
		}
		return nil, fmt.Errorf("error saving ticket: %w", err)
	}
	res := &Result{Committed: true, Ticket: t}

	if err := h.bumpCounter(ctx, p.ID); err != nil {
		l.Error("Error counting created ticket", logging.ErrAttr(err))
		res.warn("The ticket counter of the panel could not be updated.")
	}

	if msg := h.post(ctx, res, t.ChannelID, "welcome message", welcomeMessage(t, p)); msg != nil {
		t.WelcomeMessageID = msg.ID
		if err := h.tickets.SaveTicket(ctx, t); err != nil {
			return nil, fmt.Errorf("error saving ticket: %w", err)
		}
	}

	h.logEvent(ctx, res, p, logEmbed("Ticket opened", t, actor.UserID, colorOpen))

	ticketEvents.WithLabelValues("create").Inc()
	l.Info("Ticket created", slog.String(logging.KeyUser, actor.UserID), slog.String(logging.KeyChannel, t.ChannelID))
	return res, nil
}

// bumpCounter increments the created tickets counter of a panel.
func (h *Handler) bumpCounter(ctx context.Context, panelID string) error {
	_, err := h.panels.UpdatePanel(ctx, panelID, func(p *entities.Panel) error {
		p.TicketsCreated++
		return nil
	})
	if err != nil {
		return fmt.Errorf("error updating panel counter: %w", err)
	}
	return nil
}

func questionInputID(i int) string {
	return fmt.Sprintf("q%d", i)
}

// questionsModal asks the surfaced questions of a panel before the ticket is created.
func questionsModal(p *entities.Panel, qs []entities.Question) *discordgo.InteractionResponseData {
	rows := make([]discordgo.MessageComponent, 0, len(qs))
	for i, q := range qs {
		rows = append(rows, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:  questionInputID(i),
					Label:     q.Text,
					Style:     discordgo.TextInputParagraph,
					Required:  q.Kind == entities.QuestionPrimary,
					MaxLength: maxAnswerLength,
				},
			},
		})
	}

	title := p.Name
	if len([]rune(title)) > 45 {
		title = string([]rune(title)[:45])
	}
	return &discordgo.InteractionResponseData{
		CustomID:   router.ID(System, "questions", p.ID),
		Title:      title,
		Components: rows,
	}
}

// answersFrom pairs the submitted form with the surfaced questions of the panel.
func answersFrom(p *entities.Panel, form map[string]string) ([]entities.Answer, error) {
	qs := entities.SurfacedQuestions(p.Questions)
	answers := make([]entities.Answer, 0, len(qs))
	for i, q := range qs {
		value := strings.TrimSpace(form[questionInputID(i)])
		if value == "" && q.Kind == entities.QuestionPrimary {
			return nil, apperr.Invalid("Please answer \"%s\".", q.Text)
		}
		answers = append(answers, entities.Answer{Question: q.Text, Answer: value})
	}
	return answers, nil
}

// open handles the panel button. Panels with questions ask them first.
func (h *Handler) open(ctx context.Context, ix *platform.Interaction, panelID string) error {
	user := ix.User()
	p, err := h.openPanel(ctx, ix.GuildID, panelID)
	if err != nil {
		return err
	}
	if err := h.ensureNoOpenTicket(ctx, user.ID, p.ID); err != nil {
		return err
	}

	if qs := entities.SurfacedQuestions(p.Questions); len(qs) > 0 {
		return ix.ShowModal(ctx, questionsModal(p, qs))
	}

	if err := ix.DeferReply(ctx, true); err != nil {
		return err
	}
	return h.create(ctx, ix, p.ID, nil)
}

// submitQuestions handles the question modal.
func (h *Handler) submitQuestions(ctx context.Context, ix *platform.Interaction, panelID string) error {
	p, err := h.openPanel(ctx, ix.GuildID, panelID)
	if err != nil {
		return err
	}
	answers, err := answersFrom(p, ix.FormValues())
	if err != nil {
		return err
	}

	if err := ix.DeferReply(ctx, true); err != nil {
		return err
	}
	return h.create(ctx, ix, p.ID, answers)
}

func (h *Handler) create(ctx context.Context, ix *platform.Interaction, panelID string, answers []entities.Answer) error {
	res, err := h.Create(ctx, ActorFrom(ix), ix.GuildID, panelID, answers)
	if err != nil {
		return err
	}
	data := platform.Ephemeral(res.Message(""), createdEmbed(res.Ticket))
	return ix.Reply(ctx, data)
}
