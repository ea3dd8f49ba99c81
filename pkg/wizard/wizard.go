// Package wizard implements the panel setup wizard. The whole draft lives in the user's autosave
// record, so every step can be resumed after a restart.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/apperr"
	"github.com/Jacobbrewer1/ticketwolf/pkg/custom"
	"github.com/Jacobbrewer1/ticketwolf/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
	"github.com/Jacobbrewer1/ticketwolf/pkg/panels"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
	"github.com/Jacobbrewer1/ticketwolf/pkg/router"
)

const (
	// System is the router system of the wizard.
	System = "setup"

	// maxChanges caps the change log of an autosave.
	maxChanges = 25

	inputValue = "value"
	inputKind  = "kind"
	noneValue  = "none"
)

// Wizard is the setup wizard handler.
type Wizard struct {
	l         *slog.Logger
	s         platform.Session
	autosaves dataaccess.AutosaveDal
	panels    dataaccess.PanelDal
	svc       *panels.Service
	collector *platform.Collector

	emojiTimeout time.Duration
	now          func() time.Time
}

type Option func(w *Wizard)

// WithEmojiTimeout sets how long the emoji prompt waits for a message.
func WithEmojiTimeout(d time.Duration) Option {
	return func(w *Wizard) {
		w.emojiTimeout = d
	}
}

// WithClock sets the clock used for change log timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) {
		w.now = now
	}
}

// New creates a new Wizard.
func New(l *slog.Logger, s platform.Session, autosaves dataaccess.AutosaveDal, panelDal dataaccess.PanelDal, svc *panels.Service, collector *platform.Collector, opts ...Option) *Wizard {
	w := &Wizard{
		l:            l.With(slog.String(logging.KeySystem, System)),
		s:            s,
		autosaves:    autosaves,
		panels:       panelDal,
		svc:          svc,
		collector:    collector,
		emojiTimeout: platform.DefaultCaptureTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start opens the wizard as an ephemeral reply. With a panel id the wizard edits that panel,
// otherwise it resumes the user's unfinished new panel or starts from defaults.
func (w *Wizard) Start(ctx context.Context, ix *platform.Interaction, panelID string) error {
	user := ix.User()

	var a *entities.Autosave
	if panelID != "" {
		p, err := w.svc.Get(ctx, ix.GuildID, panelID)
		if err != nil {
			return w.userError(ctx, ix, err)
		}
		a = w.newAutosave(user.ID, ix.GuildID)
		a.Draft = entities.DraftFromPanel(p)
	} else {
		existing, err := w.autosaves.GetAutosave(ctx, user.ID)
		switch {
		case err == nil && existing.GuildID == ix.GuildID && existing.Draft.PanelID == "":
			a = existing
		case err == nil || errors.Is(err, dataaccess.ErrNotFound):
			a = w.newAutosave(user.ID, ix.GuildID)
		default:
			return fmt.Errorf("error getting autosave: %w", err)
		}
	}

	if err := w.save(ctx, a); err != nil {
		return err
	}

	data := mainScreen(a, "")
	data.Flags = discordgo.MessageFlagsEphemeral
	return ix.Reply(ctx, data)
}

// Execute handles the routed wizard actions.
func (w *Wizard) Execute(ctx context.Context, ix *platform.Interaction, a router.Action) error {
	err := w.dispatch(ctx, ix, a)
	return w.userError(ctx, ix, err)
}

// userError shows known errors to the user and passes everything else on.
func (w *Wizard) userError(ctx context.Context, ix *platform.Interaction, err error) error {
	msg, ok := apperr.UserMessage(err)
	if !ok {
		return err
	}
	if err := ix.Reply(ctx, platform.Ephemeral(msg)); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}

func (w *Wizard) dispatch(ctx context.Context, ix *platform.Interaction, a router.Action) error {
	switch a.Name {
	case "screen":
		return w.showScreen(ctx, ix, a.Arg(0))
	case "pick":
		return w.pick(ctx, ix, a.Arg(0))
	case "select":
		return w.selectValue(ctx, ix, a.Arg(0))
	case "modal":
		return w.showModal(ctx, ix, a.Arg(0))
	case "submit":
		return w.submit(ctx, ix, a.Arg(0))
	case "delquestion":
		return w.deleteQuestion(ctx, ix)
	case "suggest":
		return w.suggest(ctx, ix, a.Arg(0))
	case "emoji":
		return w.captureEmoji(ctx, ix)
	case "emojiconfirm":
		return w.confirmEmoji(ctx, ix, a)
	case "emojideny":
		return w.showScreen(ctx, ix, screenButton, "Emoji discarded.")
	case "finish":
		return w.finish(ctx, ix)
	case "cancel", "resendcancel":
		return w.cancel(ctx, ix)
	case "resend":
		return w.resend(ctx, ix)
	default:
		w.l.Warn("Unknown wizard action", slog.String(logging.KeyAction, a.Name))
		return nil
	}
}

func (w *Wizard) newAutosave(userID, guildID string) *entities.Autosave {
	return &entities.Autosave{
		ID:        entities.AutosaveID(userID),
		UserID:    userID,
		GuildID:   guildID,
		StartedAt: custom.Datetime(w.now().UTC()),
	}
}

// load returns the autosave of the invoking user, or a fresh one when there is none.
func (w *Wizard) load(ctx context.Context, ix *platform.Interaction) (*entities.Autosave, error) {
	user := ix.User()
	a, err := w.autosaves.GetAutosave(ctx, user.ID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return w.newAutosave(user.ID, ix.GuildID), nil
	} else if err != nil {
		return nil, fmt.Errorf("error getting autosave: %w", err)
	}
	return a, nil
}

func (w *Wizard) save(ctx context.Context, a *entities.Autosave) error {
	if err := w.autosaves.SaveAutosave(ctx, a); err != nil {
		return fmt.Errorf("error saving autosave: %w", err)
	}
	return nil
}

func (w *Wizard) discard(ctx context.Context, userID string) error {
	if err := w.autosaves.DeleteAutosave(ctx, userID); err != nil && !errors.Is(err, dataaccess.ErrNotFound) {
		return fmt.Errorf("error deleting autosave: %w", err)
	}
	return nil
}

// logChange appends a line to the change log, keeping the newest maxChanges.
func (w *Wizard) logChange(a *entities.Autosave, label, oldValue, newValue string) {
	line := fmt.Sprintf("[%s] Modified %s: \"%s\" → \"%s\"",
		w.now().Format("15:04"), label, truncate(oldValue, 40), truncate(newValue, 40))
	a.Changes = append(a.Changes, line)
	if len(a.Changes) > maxChanges {
		a.Changes = a.Changes[len(a.Changes)-maxChanges:]
	}
}

func (w *Wizard) showScreen(ctx context.Context, ix *platform.Interaction, screen string, notice ...string) error {
	a, err := w.load(ctx, ix)
	if err != nil {
		return err
	}
	if err := w.save(ctx, a); err != nil {
		return err
	}
	return ix.Update(ctx, render(screen, a, strings.Join(notice, " ")))
}

func (w *Wizard) pick(ctx context.Context, ix *platform.Interaction, name string) error {
	f, ok := fields[name]
	if !ok {
		return apperr.Invalid("Unknown field `%s`.", name)
	}

	var options []discordgo.SelectMenuOption
	switch f.kind {
	case kindTextChannel, kindCategory:
		channels, err := w.s.GuildChannels(ctx, ix.GuildID)
		if err != nil {
			return fmt.Errorf("error getting guild channels: %w", err)
		}
		want := discordgo.ChannelTypeGuildText
		if f.kind == kindCategory {
			want = discordgo.ChannelTypeGuildCategory
		}
		sort.SliceStable(channels, func(i, j int) bool { return channels[i].Position < channels[j].Position })
		for _, ch := range channels {
			if ch.Type == want {
				options = append(options, discordgo.SelectMenuOption{Label: truncate(ch.Name, 100), Value: ch.ID})
			}
		}
	case kindRole:
		roles, err := w.s.GuildRoles(ctx, ix.GuildID)
		if err != nil {
			return fmt.Errorf("error getting guild roles: %w", err)
		}
		for _, r := range roles {
			// The guild id is the @everyone role and managed roles belong to integrations.
			if r.ID == ix.GuildID || r.Managed {
				continue
			}
			options = append(options, discordgo.SelectMenuOption{Label: truncate(r.Name, 100), Value: r.ID})
		}
	default:
		return apperr.Invalid("Field `%s` cannot be picked from a list.", name)
	}

	return ix.Update(ctx, pickerScreen(f, options, ""))
}

func (w *Wizard) selectValue(ctx context.Context, ix *platform.Interaction, name string) error {
	f, ok := fields[name]
	if !ok {
		return apperr.Invalid("Unknown field `%s`.", name)
	}

	values := ix.Values()
	var value string
	switch f.kind {
	case kindCapabilities:
		value = joinCapabilities(entities.ParseCapabilities(values))
	default:
		if len(values) == 0 {
			return w.showScreen(ctx, ix, f.screen)
		}
		value = values[0]
	}

	switch f.kind {
	case kindColor:
		if !entities.Color(value).Valid() {
			return apperr.Invalid("`%s` is not a button color.", value)
		}
	case kindToggle:
		if value != "yes" && value != "no" {
			return apperr.Invalid("`%s` is not a valid choice.", value)
		}
	case kindTextChannel, kindCategory, kindRole:
		if value == noneValue {
			value = ""
		}
	}

	a, err := w.load(ctx, ix)
	if err != nil {
		return err
	}

	old := f.display(&a.Draft)
	f.set(&a.Draft, value)
	w.logChange(a, f.label, old, f.display(&a.Draft))

	if err := w.save(ctx, a); err != nil {
		return err
	}
	return ix.Update(ctx, render(f.screen, a, ""))
}

func (w *Wizard) showModal(ctx context.Context, ix *platform.Interaction, name string) error {
	f := questionField
	if name != questionField.name {
		var ok bool
		f, ok = fields[name]
		if !ok || (f.kind != kindText && f.kind != kindParagraph) {
			return apperr.Invalid("Field `%s` cannot be edited with a form.", name)
		}
	}

	a, err := w.load(ctx, ix)
	if err != nil {
		return err
	}
	return ix.ShowModal(ctx, modalData(f, &a.Draft))
}

func (w *Wizard) submit(ctx context.Context, ix *platform.Interaction, name string) error {
	form := ix.FormValues()
	value := strings.TrimSpace(form[inputValue])

	a, err := w.load(ctx, ix)
	if err != nil {
		return err
	}

	screen := screenExtra
	if name == questionField.name {
		if value == "" {
			return apperr.Invalid("A question cannot be empty.")
		}
		kind := entities.QuestionPrimary
		if k := strings.ToLower(strings.TrimSpace(form[inputKind])); k == "no" || k == "n" {
			kind = entities.QuestionOptional
		}
		a.Draft.Questions = append(a.Draft.Questions, entities.Question{Text: value, Kind: kind})
		w.logChange(a, questionField.label, "", value)
	} else {
		f, ok := fields[name]
		if !ok || (f.kind != kindText && f.kind != kindParagraph) {
			return apperr.Invalid("Unknown field `%s`.", name)
		}
		if f.maxLen > 0 && len([]rune(value)) > f.maxLen {
			return apperr.Invalid("%s can be at most %d characters.", f.label, f.maxLen)
		}
		old := f.get(&a.Draft)
		f.set(&a.Draft, value)
		w.logChange(a, f.label, old, value)
		screen = f.screen
	}

	if err := w.save(ctx, a); err != nil {
		return err
	}
	return ix.Update(ctx, render(screen, a, ""))
}

func (w *Wizard) deleteQuestion(ctx context.Context, ix *platform.Interaction) error {
	values := ix.Values()
	if len(values) == 0 {
		return w.showScreen(ctx, ix, screenExtra)
	}
	idx, err := strconv.Atoi(values[0])
	if err != nil {
		return apperr.Invalid("`%s` is not a question.", values[0])
	}

	a, err := w.load(ctx, ix)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(a.Draft.Questions) {
		return ix.Update(ctx, render(screenExtra, a, "That question no longer exists."))
	}

	removed := a.Draft.Questions[idx]
	a.Draft.Questions = append(a.Draft.Questions[:idx:idx], a.Draft.Questions[idx+1:]...)
	w.logChange(a, questionField.label, removed.Text, "")

	if err := w.save(ctx, a); err != nil {
		return err
	}
	return ix.Update(ctx, render(screenExtra, a, ""))
}

func (w *Wizard) cancel(ctx context.Context, ix *platform.Interaction) error {
	if err := w.discard(ctx, ix.User().ID); err != nil {
		return err
	}
	return ix.Update(ctx, closedScreen("Panel setup cancelled. Your draft has been discarded."))
}
