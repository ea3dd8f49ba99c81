//go:build wireinject
// +build wireinject

package main

import (
	"github.com/Jacobbrewer1/ticketwolf/cmd/bot/config"
	"github.com/Jacobbrewer1/ticketwolf/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
	"github.com/Jacobbrewer1/ticketwolf/pkg/platform"
	"github.com/Jacobbrewer1/ticketwolf/pkg/transcript"
	"github.com/google/wire"
	"github.com/gorilla/mux"
)

var dalSet = wire.NewSet(
	dataaccess.NewTicketDal,
	dataaccess.NewPanelDal,
	dataaccess.NewAutosaveDal,
	dataaccess.NewTemplateDal,
	dataaccess.NewGuildDal,
)

var platformSet = wire.NewSet(
	provideDiscordSession,
	platform.NewDiscord,
	wire.Bind(new(platform.Session), new(*platform.Discord)),
	platform.NewCollector,
)

var handlerSet = wire.NewSet(
	provideGovernor,
	providePanelService,
	transcript.NewHTML,
	wire.Bind(new(transcript.Renderer), new(*transcript.HTML)),
	provideTickets,
	provideWizard,
	provideRouter,
)

func InitializeApp() (*App, func(), error) {
	wire.Build(
		wire.Value(logging.Name(config.AppName)),
		logging.NewConfig,
		logging.CommonLogger,
		config.Parse,
		provideStore,
		dalSet,
		platformSet,
		handlerSet,
		mux.NewRouter,
		NewApp,
	)
	return new(App), nil, nil
}
