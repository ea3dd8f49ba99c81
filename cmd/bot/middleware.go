package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
	"github.com/Jacobbrewer1/ticketwolf/pkg/request"
	"github.com/gorilla/mux"
)

// commandController handles one slash command.
type commandController func(ctx context.Context, ix *platform.Interaction) error

func middlewareHttp(l *slog.Logger, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("Panic in handler",
					slog.Any(logging.KeyError, rec),
					slog.String("stack", string(debug.Stack())),
				)
				request.WriteMessage(l, cw, http.StatusInternalServerError, request.NewMessage("Internal server error"))
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				l.Error("Error getting path template", logging.ErrAttr(err))
				path = r.URL.Path
			}
		} else {
			path = r.URL.Path
		}

		defer func() {
			// Run the deferred function after the request has been handled, as the status code will not be available until then.
			status := fmt.Sprintf("%d", cw.StatusCode())
			monitoring.HttpTotalRequests.WithLabelValues(path, r.Method, status).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(path, r.Method, status).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// interactionHandler sends slash commands to their controllers and everything with a custom id
// through the interaction router.
func (a *App) interactionHandler(ctx context.Context) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		ix := platform.NewInteraction(a.s, i.Interaction)
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			a.handleCommand(ctx, ix)
		case discordgo.InteractionMessageComponent, discordgo.InteractionModalSubmit:
			a.router.Route(ctx, ix)
		}
	}
}

func (a *App) handleCommand(ctx context.Context, ix *platform.Interaction) {
	name := ix.ApplicationCommandData().Name
	l := a.With(
		slog.String("command", name),
		slog.String(logging.KeyGuild, ix.GuildID),
		slog.String(logging.KeyUser, ix.User().ID),
	)

	start := time.Now()
	defer func() {
		monitoring.DiscordCommandDuration.WithLabelValues(name, "slash").Observe(time.Since(start).Seconds())
	}()

	defer func() {
		if rec := recover(); rec != nil {
			l.Error("Panic in command", slog.Any("panic", rec), slog.String("stack", string(debug.Stack())))
			a.respondError(ctx, l, ix, fmt.Errorf("panic in command: %v", rec))
		}
	}()

	if ix.GuildID == "" {
		a.respondError(ctx, l, ix, errGuildOnly)
		return
	}

	controller, ok := a.commands[name]
	if !ok {
		a.respondError(ctx, l, ix, fmt.Errorf("no controller found for command %s", name))
		return
	}

	if err := controller(ctx, ix); err != nil {
		a.respondError(ctx, l, ix, err)
	}
}
