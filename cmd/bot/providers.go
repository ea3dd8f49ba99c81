package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/cmd/bot/config"
	"github.com/Jacobbrewer1/ticketwolf/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketwolf/pkg/governor"
	"github.com/Jacobbrewer1/ticketwolf/pkg/panels"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
	"github.com/Jacobbrewer1/ticketwolf/pkg/router"
	"github.com/Jacobbrewer1/ticketwolf/pkg/tickets"
	"github.com/Jacobbrewer1/ticketwolf/pkg/transcript"
	"github.com/Jacobbrewer1/ticketwolf/pkg/wizard"
)

// storeConnectTimeout bounds connecting to the store at start-up.
const storeConnectTimeout = 30 * time.Second

func provideStore(cfg *config.Config, l *slog.Logger) (dataaccess.Store, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), storeConnectTimeout)
	defer cancel()
	return dataaccess.Open(ctx, cfg.Store(), l)
}

func provideDiscordSession(cfg *config.Config) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	return dg, nil
}

func provideGovernor(cfg *config.Config, l *slog.Logger) *governor.Governor {
	return governor.New(l,
		governor.WithInterval(cfg.ChannelOpInterval),
		governor.WithTimeout(cfg.ChannelOpTimeout),
	)
}

func providePanelService(cfg *config.Config, l *slog.Logger, s platform.Session, panelDal dataaccess.PanelDal,
	templateDal dataaccess.TemplateDal, guildDal dataaccess.GuildDal) *panels.Service {
	return panels.NewService(l, s, panelDal, templateDal, guildDal, cfg.DefaultPrefix)
}

func provideTickets(l *slog.Logger, s platform.Session, ticketDal dataaccess.TicketDal, panelDal dataaccess.PanelDal,
	svc *panels.Service, gov *governor.Governor, renderer transcript.Renderer) *tickets.Handler {
	return tickets.New(l, s, ticketDal, panelDal, svc, gov, renderer)
}

func provideWizard(l *slog.Logger, s platform.Session, autosaveDal dataaccess.AutosaveDal, panelDal dataaccess.PanelDal,
	svc *panels.Service, collector *platform.Collector) *wizard.Wizard {
	return wizard.New(l, s, autosaveDal, panelDal, svc, collector)
}

// provideRouter registers every interaction system.
func provideRouter(l *slog.Logger, w *wizard.Wizard, t *tickets.Handler) *router.Router {
	r := router.New(l)
	r.Register(wizard.System, w)
	r.Register(tickets.System, t)
	return r
}
