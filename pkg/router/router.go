// Package router dispatches component and modal interactions to the system that owns them.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
)

// GenericFailure is shown to the user when a handler fails unexpectedly.
const GenericFailure = "There was an error processing your request. Please try again later."

// Handler executes the actions of one system.
type Handler interface {
	Execute(ctx context.Context, ix *platform.Interaction, a Action) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, ix *platform.Interaction, a Action) error

func (f HandlerFunc) Execute(ctx context.Context, ix *platform.Interaction, a Action) error {
	return f(ctx, ix, a)
}

var (
	// ModalActions may open a modal, so they are never acknowledged before the handler runs.
	ModalActions = map[string]bool{
		"modal": true,
	}

	// ReplyActions decide between a modal and an ephemeral reply themselves.
	ReplyActions = map[string]bool{
		"open":          true,
		"close":         true,
		"reopen":        true,
		"claim":         true,
		"unclaim":       true,
		"delete":        true,
		"deleteconfirm": true,
		"transcript":    true,
		"questions":     true,
	}
)

// Router owns the handler registry.
type Router struct {
	l *slog.Logger

	mu       sync.RWMutex
	handlers map[string]Handler
}

// New creates a new Router.
func New(l *slog.Logger) *Router {
	return &Router{
		l:        l,
		handlers: make(map[string]Handler),
	}
}

// Register sets the handler for a system, replacing any previous one.
func (r *Router) Register(system string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[system] = h
}

func (r *Router) handler(system string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[system]
	return h, ok
}

// Route dispatches an interaction. It never returns an error and never panics.
func (r *Router) Route(ctx context.Context, ix *platform.Interaction) {
	if !ix.IsComponent() && !ix.IsModalSubmit() {
		return
	}

	a, err := ParseAction(ix.CustomID())
	if err != nil {
		r.l.Warn("Dropping interaction", logging.ErrAttr(err))
		interactionsTotal.WithLabelValues("", "", outcomeMalformed).Inc()
		return
	}

	l := r.l.With(
		slog.String(logging.KeySystem, a.System),
		slog.String(logging.KeyAction, a.Name),
		slog.String(logging.KeyGuild, ix.GuildID),
		slog.String(logging.KeyUser, ix.User().ID),
	)

	h, ok := r.handler(a.System)
	if !ok {
		l.Warn("No handler registered for system")
		interactionsTotal.WithLabelValues(a.System, a.Name, outcomeUnhandled).Inc()
		return
	}

	start := time.Now()
	defer func() {
		interactionDuration.WithLabelValues(a.System, a.Name).Observe(time.Since(start).Seconds())
	}()

	if r.shouldDefer(ix, a) {
		if err := ix.DeferUpdate(ctx); err != nil {
			l.Error("Error deferring interaction", logging.ErrAttr(err))
		}
	}

	if err := r.execute(ctx, h, ix, a); err != nil {
		l.Error("Error handling interaction", logging.ErrAttr(err))
		interactionsTotal.WithLabelValues(a.System, a.Name, outcomeError).Inc()
		r.notifyFailure(ctx, l, ix)
		return
	}
	interactionsTotal.WithLabelValues(a.System, a.Name, outcomeSuccess).Inc()
}

func (r *Router) shouldDefer(ix *platform.Interaction, a Action) bool {
	if ModalActions[a.Name] || ReplyActions[a.Name] {
		return false
	}
	if !ix.IsComponent() {
		return false
	}
	switch ix.MessageComponentData().ComponentType {
	case discordgo.ButtonComponent, discordgo.SelectMenuComponent, discordgo.UserSelectMenuComponent,
		discordgo.RoleSelectMenuComponent, discordgo.ChannelSelectMenuComponent, discordgo.MentionableSelectMenuComponent:
		return !ix.Acknowledged()
	}
	return false
}

func (r *Router) execute(ctx context.Context, h Handler, ix *platform.Interaction, a Action) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in handler: %v\n%s", rec, debug.Stack())
		}
	}()
	return h.Execute(ctx, ix, a)
}

func (r *Router) notifyFailure(ctx context.Context, l *slog.Logger, ix *platform.Interaction) {
	defer func() {
		if rec := recover(); rec != nil {
			l.Error("Panic sending failure notice", slog.Any("panic", rec))
		}
	}()

	var err error
	if ix.Acknowledged() {
		err = ix.EditReply(ctx, platform.Ephemeral(GenericFailure))
	} else {
		err = ix.Reply(ctx, platform.Ephemeral(GenericFailure))
	}
	if err != nil {
		l.Debug("Error sending failure notice", logging.ErrAttr(err))
	}
}
