package main

import (
	"context"
	"os"

	"github.com/dmitrymomot/wagate/internal/app"
	"github.com/dmitrymomot/wagate/pkg/logger"
	"github.com/dmitrymomot/wagate/pkg/requestid"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		logger.New().Error("failed to load configuration", logger.Error(err))
		os.Exit(1)
	}

	log := cfg.NewLogger(requestid.LoggerExtractor())
	logger.SetAsDefault(log)

	if err := app.Run(context.Background(), cfg, log); err != nil {
		log.Error("gateway stopped", logger.Error(err))
		os.Exit(1)
	}
}
