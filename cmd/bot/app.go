package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/cmd/bot/config"
	"github.com/Jacobbrewer1/ticketwolf/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/ticketwolf/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
	"github.com/Jacobbrewer1/ticketwolf/pkg/panels"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
	"github.com/Jacobbrewer1/ticketwolf/pkg/request"
	"github.com/Jacobbrewer1/ticketwolf/pkg/router"
	"github.com/Jacobbrewer1/ticketwolf/pkg/tickets"
	"github.com/Jacobbrewer1/ticketwolf/pkg/wizard"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for health check.
	PathHealth = "/health"

	// shutdownTimeout bounds the graceful shutdown.
	shutdownTimeout = 15 * time.Second
)

type App struct {
	// is the logger.
	*slog.Logger

	cfg *config.Config

	// r is the router for the monitoring server.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// dg is the discord session.
	dg *discordgo.Session

	// s is the platform session handlers talk to.
	s platform.Session

	store     dataaccess.Store
	router    *router.Router
	wizard    *wizard.Wizard
	tickets   *tickets.Handler
	panels    *panels.Service
	collector *platform.Collector

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any

	// commands are the slash command controllers by command name.
	commands map[string]commandController

	// messageCommands are the prefix message commands by name.
	messageCommands map[string]messageCommand

	// registered is the set of guilds the slash commands were registered in.
	registered sync.Map
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, cfg *config.Config, r *mux.Router, dg *discordgo.Session, s platform.Session,
	store dataaccess.Store, rt *router.Router, w *wizard.Wizard, t *tickets.Handler, svc *panels.Service,
	collector *platform.Collector) *App {
	a := &App{
		Logger:    l,
		cfg:       cfg,
		r:         r,
		dg:        dg,
		s:         s,
		store:     store,
		router:    rt,
		wizard:    w,
		tickets:   t,
		panels:    svc,
		collector: collector,
	}
	a.commands = map[string]commandController{
		panelCmdName:    a.panelCmdController,
		ticketCmdName:   a.ticketCmdController,
		ticketsCmdName:  a.ticketsCmdController,
		templateCmdName: a.templateCmdController,
		prefixCmdName:   a.prefixCmdController,
	}
	a.messageCommands = a.ticketMessageCommands()
	return a
}

func (a *App) Run(ctx context.Context) error {
	// Register bot.
	if err := a.RegisterBot(); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	a.dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.Info(fmt.Sprintf("Logged in as %s", r.User.Username))
	})

	if err := a.RegisterDiscordHandlers(ctx); err != nil {
		return fmt.Errorf("error registering discord handlers: %w", err)
	}

	// Start event listener.
	go a.eventListener()

	// Open websocket.
	if err := a.dg.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	// Register slash commands.
	if err := a.registerSlashCommands(); err != nil {
		return fmt.Errorf("error registering slash commands: %w", err)
	}

	a.Info("Bot is now running.")

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	<-ctx.Done()
	a.Info("Received shutdown signal")
	return a.ShutdownHook()
}

func (a *App) ShutdownHook() error {
	// Reset the total number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.svr.Shutdown(ctx); err != nil {
		a.Error("Error shutting down monitoring server", logging.ErrAttr(err))
	}

	// Close the connection to Discord so no new work starts.
	if err := a.dg.Close(); err != nil {
		return fmt.Errorf("error closing connection to Discord: %w", err)
	}

	// Let transcripts and notice clean up finish.
	done := make(chan struct{})
	go func() {
		a.tickets.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		a.Warn("Background ticket work did not finish before shutdown")
	}
	return nil
}

func (a *App) RegisterBot() error {
	// Default the number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	a.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildEmojis |
		discordgo.IntentsMessageContent

	if a.eventNotifier == nil {
		// Create event notifier. This is used to count events. It is buffered to prevent blocking.
		a.eventNotifier = make(chan any, 100)
	}

	a.dg.SetEventNotifier(a.eventNotifier)
	return nil
}

func (a *App) runServer() {
	go func() {
		a.Info("Starting monitoring server", slog.String("addr", a.svr.Addr))
		if err := a.svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Error("Error starting monitoring server", logging.ErrAttr(err))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	a.r.HandleFunc(PathMetrics, middlewareHttp(a.Logger, promhttp.Handler().ServeHTTP)).Methods(http.MethodGet)
	a.r.HandleFunc(PathHealth, middlewareHttp(a.Logger, a.healthCheck())).Methods(http.MethodGet)

	a.r.NotFoundHandler = request.NotFoundHandler(a.Logger)
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Logger)
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:              ":" + a.cfg.MonitoringPort,
		Handler:           a.r,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (a *App) GetJoinedGuilds() ([]*discordgo.UserGuild, error) {
	guilds, err := a.dg.UserGuilds(0, "", "")
	if err != nil {
		return nil, fmt.Errorf("error getting guilds: %w", err)
	}
	return guilds, nil
}

func (a *App) RegisterDiscordHandlers(ctx context.Context) error {
	// Bot joined guild.
	a.dg.AddHandler(a.guildJoinedHandler())

	// Bot left guild.
	a.dg.AddHandler(a.guildLeaveHandler())

	// Messages feed the wizard's emoji capture and the prefix commands.
	a.dg.AddHandler(a.collector.Handle)
	a.dg.AddHandler(a.messageCommandHandler(ctx))

	// Slash commands, components and modals.
	a.dg.AddHandler(a.interactionHandler(ctx))
	return nil
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				monitoring.TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				monitoring.TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			monitoring.TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}

func (a *App) registerSlashCommands() error {
	// Get all guilds the bot is in.
	guilds, err := a.GetJoinedGuilds()
	if err != nil {
		return fmt.Errorf("error getting guilds: %w", err)
	}

	// Register slash commands for each guild.
	for _, g := range guilds {
		if err := a.registerGuildCommands(g.ID); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) registerGuildCommands(guildID string) error {
	if _, done := a.registered.LoadOrStore(guildID, struct{}{}); done {
		return nil
	}
	if _, err := a.dg.ApplicationCommandBulkOverwrite(a.cfg.ApplicationId, guildID, slashCommands); err != nil {
		a.registered.Delete(guildID)
		return fmt.Errorf("error creating commands for guild %s: %w", guildID, err)
	}
	return nil
}
