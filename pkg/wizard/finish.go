package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Jacobbrewer1/ticketwolf/pkg/apperr"
	"github.com/Jacobbrewer1/ticketwolf/pkg/custom"
	"github.com/Jacobbrewer1/ticketwolf/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
)

// requiredFields must be set before a draft can be committed.
var requiredFields = []string{"name", "channel", "opencategory", "staffrole"}

// missingFields returns the labels of the required fields the draft lacks.
func missingFields(d *entities.PanelDraft) []string {
	missing := make([]string, 0)
	for _, name := range requiredFields {
		f := fields[name]
		if strings.TrimSpace(f.get(d)) == "" {
			missing = append(missing, f.label)
		}
	}
	return missing
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func stringOr(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// build turns a complete draft into a panel, substituting defaults for every optional field.
func build(d *entities.PanelDraft, guildID string) *entities.Panel {
	p := &entities.Panel{
		ID:                  d.PanelID,
		GuildID:             guildID,
		Name:                d.Name,
		ChannelID:           d.ChannelID,
		OpenCategoryID:      d.OpenCategoryID,
		CloseCategoryID:     d.CloseCategoryID,
		StaffRoleID:         d.StaffRoleID,
		LogsChannelID:       d.LogsChannelID,
		TranscriptChannelID: d.TranscriptChannelID,
		ButtonLabel:         stringOr(d.ButtonLabel, entities.DefaultButtonLabel),
		ButtonEmoji:         entities.Emoji{Name: entities.DefaultButtonEmoji},
		ButtonColor:         d.ButtonColor,
		Description:         stringOr(d.Description, entities.DefaultDescription),
		OpenMessage:         stringOr(d.OpenMessage, entities.DefaultOpenMessage),
		Questions:           append([]entities.Question{}, d.Questions...),
		Claimable:           boolOr(d.Claimable, true),
		OwnerCanClose:       boolOr(d.OwnerCanClose, true),
		Enabled:             true,
		OwnerPermissions:    append([]entities.Capability{}, d.OwnerPermissions...),
		StaffPermissions:    append([]entities.Capability{}, d.StaffPermissions...),
	}
	if d.ButtonEmoji != nil && !d.ButtonEmoji.IsZero() {
		p.ButtonEmoji = *d.ButtonEmoji
	}
	if !p.ButtonColor.Valid() {
		p.ButtonColor = entities.ColorPrimary
	}
	return p
}

func (w *Wizard) finish(ctx context.Context, ix *platform.Interaction) error {
	a, err := w.load(ctx, ix)
	if err != nil {
		return err
	}

	if missing := missingFields(&a.Draft); len(missing) > 0 {
		return ix.Update(ctx, render(screenMain, a,
			fmt.Sprintf("The panel cannot be finished yet. Missing: %s.", strings.Join(missing, ", "))))
	}

	p := build(&a.Draft, ix.GuildID)
	if a.Draft.PanelID == "" {
		return w.create(ctx, ix, a, p)
	}
	return w.edit(ctx, ix, a, p)
}

func (w *Wizard) create(ctx context.Context, ix *platform.Interaction, a *entities.Autosave, p *entities.Panel) error {
	id, err := w.panels.NextPanelID(ctx)
	if err != nil {
		return fmt.Errorf("error generating panel id: %w", err)
	}
	p.ID = id
	p.CreatedAt = custom.Datetime(w.now().UTC())

	if err := w.svc.Send(ctx, p); err != nil {
		return err
	}
	if err := w.panels.SavePanel(ctx, p); err != nil {
		w.withdraw(ctx, p)
		return fmt.Errorf("error saving panel: %w", err)
	}
	if err := w.discard(ctx, a.UserID); err != nil {
		return err
	}

	w.l.Info("Panel created", slog.String(logging.KeyPanel, p.ID), slog.String(logging.KeyGuild, p.GuildID))
	return ix.Update(ctx, finishedScreen(p, "created"))
}

func (w *Wizard) edit(ctx context.Context, ix *platform.Interaction, a *entities.Autosave, p *entities.Panel) error {
	existing, err := w.panels.GetPanel(ctx, p.ID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		if err := w.discard(ctx, a.UserID); err != nil {
			return err
		}
		return apperr.NotFound("Panel `%s` was deleted while you were editing it.", p.ID)
	} else if err != nil {
		return fmt.Errorf("error getting panel: %w", err)
	}

	p.MessageID = existing.MessageID
	p.CreatedAt = existing.CreatedAt

	if existing.ChannelID != p.ChannelID && existing.MessageID != "" {
		// The panel moved channels, the old message is left behind.
		if err := w.s.DeleteMessage(ctx, existing.ChannelID, existing.MessageID); err != nil && !platform.IsNotFound(err) {
			w.l.Warn("Error deleting old panel message", slog.String(logging.KeyPanel, p.ID), logging.ErrAttr(err))
		}
		p.MessageID = ""
	}

	sent := false
	err = w.svc.Refresh(ctx, p)
	switch {
	case platform.IsNotFound(err) && existing.ChannelID != p.ChannelID:
		if err := w.svc.Send(ctx, p); err != nil {
			return err
		}
		sent = true
	case platform.IsNotFound(err):
		// Ask before posting a replacement message.
		a.TempPanel = p
		if err := w.save(ctx, a); err != nil {
			return err
		}
		return ix.Update(ctx, resendScreen(p))
	case err != nil:
		return err
	}

	if err := w.commit(ctx, a, p); err != nil {
		if sent {
			w.withdraw(ctx, p)
		}
		return err
	}

	w.l.Info("Panel updated", slog.String(logging.KeyPanel, p.ID), slog.String(logging.KeyGuild, p.GuildID))
	return ix.Update(ctx, finishedScreen(p, "updated"))
}

func (w *Wizard) resend(ctx context.Context, ix *platform.Interaction) error {
	a, err := w.load(ctx, ix)
	if err != nil {
		return err
	}
	if a.TempPanel == nil {
		return apperr.Conflict("There is no panel waiting to be sent.")
	}

	p := a.TempPanel
	if err := w.svc.Send(ctx, p); err != nil {
		return err
	}
	if err := w.commit(ctx, a, p); err != nil {
		w.withdraw(ctx, p)
		return err
	}

	w.l.Info("Panel message re-sent", slog.String(logging.KeyPanel, p.ID), slog.String(logging.KeyGuild, p.GuildID))
	return ix.Update(ctx, finishedScreen(p, "updated"))
}

// commit overwrites the stored panel with p and discards the autosave. The ticket counter is read
// from the store under the update so tickets opened while the wizard was busy are kept.
func (w *Wizard) commit(ctx context.Context, a *entities.Autosave, p *entities.Panel) error {
	_, err := w.panels.UpdatePanel(ctx, p.ID, func(stored *entities.Panel) error {
		p.TicketsCreated = stored.TicketsCreated
		*stored = *p
		return nil
	})
	switch {
	case errors.Is(err, dataaccess.ErrNotFound):
		if err := w.discard(ctx, a.UserID); err != nil {
			return err
		}
		return apperr.NotFound("Panel `%s` was deleted while you were editing it.", p.ID)
	case err != nil:
		return fmt.Errorf("error saving panel: %w", err)
	}
	return w.discard(ctx, a.UserID)
}

// withdraw removes a panel message whose panel could not be saved.
func (w *Wizard) withdraw(ctx context.Context, p *entities.Panel) {
	if p.MessageID == "" {
		return
	}
	if err := w.s.DeleteMessage(ctx, p.ChannelID, p.MessageID); err != nil && !platform.IsNotFound(err) {
		w.l.Warn("Error deleting unsaved panel message", slog.String(logging.KeyPanel, p.ID), logging.ErrAttr(err))
	}
}
