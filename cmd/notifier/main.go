package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata" // APP_TIMEZONE must resolve on minimal images

	"github.com/rs/zerolog/log"

	"termin/config"
	"termin/di"
	"termin/shared/logger"
)

func main() {
	logger.InitLogger()
	logger.SetLogLevel(config.Get())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := di.InitializeNotifier()

	if err := consumer.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Notifier stopped")
		stop()
		os.Exit(1)
	}

	log.Info().Msg("Notifier shut down")
}
