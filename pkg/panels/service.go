// Package panels manages rendered panels, templates and guild settings outside the setup wizard.
package panels

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Jacobbrewer1/ticketwolf/pkg/apperr"
	"github.com/Jacobbrewer1/ticketwolf/pkg/custom"
	"github.com/Jacobbrewer1/ticketwolf/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
	"github.com/google/uuid"
)

const (
	codeLength      = 8
	maxCodeAttempts = 5
	maxPrefixLength = 5
)

// Service is the panel service.
type Service struct {
	l         *slog.Logger
	s         platform.Session
	panels    dataaccess.PanelDal
	templates dataaccess.TemplateDal
	guilds    dataaccess.GuildDal

	defaultPrefix string
}

// NewService creates a new panel service.
func NewService(l *slog.Logger, s platform.Session, panels dataaccess.PanelDal, templates dataaccess.TemplateDal, guilds dataaccess.GuildDal, defaultPrefix string) *Service {
	if defaultPrefix == "" {
		defaultPrefix = entities.DefaultCommandPrefix
	}
	return &Service{
		l:             l,
		s:             s,
		panels:        panels,
		templates:     templates,
		guilds:        guilds,
		defaultPrefix: defaultPrefix,
	}
}

// Get returns a panel of the guild.
func (svc *Service) Get(ctx context.Context, guildID, panelID string) (*entities.Panel, error) {
	p, err := svc.panels.GetPanel(ctx, normalizePanelID(panelID))
	if errors.Is(err, dataaccess.ErrNotFound) || (err == nil && p.GuildID != guildID) {
		return nil, apperr.NotFound("Panel `%s` does not exist.", panelID)
	} else if err != nil {
		return nil, fmt.Errorf("error getting panel: %w", err)
	}
	return p, nil
}

// Send posts a new panel message and records its id on the panel.
func (svc *Service) Send(ctx context.Context, p *entities.Panel) error {
	msg, err := svc.s.SendMessage(ctx, p.ChannelID, Render(p))
	if err != nil {
		return fmt.Errorf("error sending panel message: %w", err)
	}
	p.MessageID = msg.ID
	return nil
}

// Refresh edits the existing panel message in place. A vanished message is reported through
// platform.IsNotFound.
func (svc *Service) Refresh(ctx context.Context, p *entities.Panel) error {
	if p.MessageID == "" {
		return platform.ErrNotFound
	}
	if _, err := svc.s.EditMessage(ctx, RenderEdit(p)); err != nil {
		return fmt.Errorf("error editing panel message: %w", err)
	}
	return nil
}

// Delete removes a panel. Its message is deleted best-effort.
func (svc *Service) Delete(ctx context.Context, guildID, panelID string) (*entities.Panel, error) {
	p, err := svc.Get(ctx, guildID, panelID)
	if err != nil {
		return nil, err
	}

	if err := svc.panels.DeletePanel(ctx, p.ID); err != nil {
		return nil, fmt.Errorf("error deleting panel: %w", err)
	}

	if p.MessageID != "" {
		if err := svc.s.DeleteMessage(ctx, p.ChannelID, p.MessageID); err != nil && !platform.IsNotFound(err) {
			svc.l.Warn("Error deleting panel message",
				slog.String(logging.KeyPanel, p.ID),
				logging.ErrAttr(err),
			)
		}
	}
	return p, nil
}

// List returns the panels of a guild ordered by id.
func (svc *Service) List(ctx context.Context, guildID string) ([]*entities.Panel, error) {
	panels, err := svc.panels.ListPanels(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("error listing panels: %w", err)
	}
	sort.Slice(panels, func(i, j int) bool {
		a, _ := entities.SequenceOf(panels[i].ID)
		b, _ := entities.SequenceOf(panels[j].ID)
		return a < b
	})
	return panels, nil
}

// SaveTemplate exports a panel as a template owned by creatorID.
func (svc *Service) SaveTemplate(ctx context.Context, guildID, panelID, creatorID string) (*entities.Template, error) {
	p, err := svc.Get(ctx, guildID, panelID)
	if err != nil {
		return nil, err
	}

	code, err := svc.newCode(ctx)
	if err != nil {
		return nil, err
	}

	t := &entities.Template{
		ID:        entities.TemplateID(code),
		Code:      code,
		Name:      p.Name,
		CreatedBy: creatorID,
		Snapshot:  entities.SnapshotOf(p),
		CreatedAt: custom.Datetime(time.Now().UTC()),
	}
	if err := svc.templates.SaveTemplate(ctx, t); err != nil {
		return nil, fmt.Errorf("error saving template: %w", err)
	}
	return t, nil
}

func (svc *Service) newCode(ctx context.Context) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:codeLength]
		_, err := svc.templates.GetTemplate(ctx, code)
		if errors.Is(err, dataaccess.ErrNotFound) {
			return code, nil
		} else if err != nil {
			return "", fmt.Errorf("error checking template code: %w", err)
		}
	}
	return "", errors.New("error generating template code: too many collisions")
}

// ImportTemplate creates a disabled panel in the guild from a template. Channels and roles are
// left unset for the wizard to fill in.
func (svc *Service) ImportTemplate(ctx context.Context, guildID, code string) (*entities.Panel, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	t, err := svc.templates.GetTemplate(ctx, code)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return nil, apperr.NotFound("Template `%s` does not exist.", code)
	} else if err != nil {
		return nil, fmt.Errorf("error getting template: %w", err)
	}

	id, err := svc.panels.NextPanelID(ctx)
	if err != nil {
		return nil, fmt.Errorf("error generating panel id: %w", err)
	}

	snap := t.Snapshot
	p := &entities.Panel{
		ID:               id,
		GuildID:          guildID,
		Name:             snap.Name,
		ButtonLabel:      snap.ButtonLabel,
		ButtonEmoji:      snap.ButtonEmoji,
		ButtonColor:      snap.ButtonColor,
		Description:      snap.Description,
		OpenMessage:      snap.OpenMessage,
		Questions:        append([]entities.Question(nil), snap.Questions...),
		Claimable:        snap.Claimable,
		OwnerCanClose:    snap.OwnerCanClose,
		Enabled:          false,
		OwnerPermissions: append([]entities.Capability(nil), snap.OwnerPermissions...),
		StaffPermissions: append([]entities.Capability(nil), snap.StaffPermissions...),
		CreatedAt:        custom.Datetime(time.Now().UTC()),
	}
	if !p.ButtonColor.Valid() {
		p.ButtonColor = entities.ColorPrimary
	}

	if err := svc.panels.SavePanel(ctx, p); err != nil {
		return nil, fmt.Errorf("error saving panel: %w", err)
	}
	return p, nil
}

// ListTemplates returns the templates created by a user.
func (svc *Service) ListTemplates(ctx context.Context, creatorID string) ([]*entities.Template, error) {
	ts, err := svc.templates.ListTemplates(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("error listing templates: %w", err)
	}
	sort.Slice(ts, func(i, j int) bool {
		return ts[i].CreatedAt.Time().Before(ts[j].CreatedAt.Time())
	})
	return ts, nil
}

// DeleteTemplate deletes a template. Only its creator may delete it.
func (svc *Service) DeleteTemplate(ctx context.Context, code, userID string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	t, err := svc.templates.GetTemplate(ctx, code)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return apperr.NotFound("Template `%s` does not exist.", code)
	} else if err != nil {
		return fmt.Errorf("error getting template: %w", err)
	}

	if t.CreatedBy != userID {
		return apperr.Forbidden("Only the creator of template `%s` can delete it.", code)
	}

	if err := svc.templates.DeleteTemplate(ctx, code); err != nil {
		return fmt.Errorf("error deleting template: %w", err)
	}
	return nil
}

// Prefix returns the message command prefix of a guild.
func (svc *Service) Prefix(ctx context.Context, guildID string) string {
	g, err := svc.guilds.GetGuildByID(ctx, guildID)
	if err != nil {
		if !errors.Is(err, dataaccess.ErrNotFound) {
			svc.l.Error("Error getting guild config", slog.String(logging.KeyGuild, guildID), logging.ErrAttr(err))
		}
		return svc.defaultPrefix
	}
	if g.Prefix == "" {
		return svc.defaultPrefix
	}
	return g.Prefix
}

// SetPrefix sets the message command prefix of a guild.
func (svc *Service) SetPrefix(ctx context.Context, guildID, prefix string) error {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || len([]rune(prefix)) > maxPrefixLength || strings.ContainsAny(prefix, " \t\n") {
		return apperr.Invalid("The prefix must be 1 to %d characters without spaces.", maxPrefixLength)
	}

	g := &entities.GuildConfig{
		ID:      entities.GuildConfigID(guildID),
		GuildID: guildID,
		Prefix:  prefix,
	}
	if err := svc.guilds.SaveGuild(ctx, g); err != nil {
		return fmt.Errorf("error saving guild config: %w", err)
	}
	return nil
}

// normalizePanelID accepts both "1001" and "panel:1001".
func normalizePanelID(id string) string {
	if strings.Contains(id, ":") {
		return id
	}
	return entities.NamespacedID(entities.TypePanel, id)
}
