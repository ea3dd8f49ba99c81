package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
)

func main() {
	a, cleanup, err := InitializeApp()
	if err != nil {
		log.Fatalln(err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Info("Starting application")
	if err := a.Run(ctx); err != nil {
		a.Error("Error running application", logging.ErrAttr(err))
		cleanup()
		os.Exit(1)
	}
}
