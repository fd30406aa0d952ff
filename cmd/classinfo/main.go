package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/williampepple1/classinfo/internal/config"
	"github.com/williampepple1/classinfo/internal/scraper"
	"github.com/williampepple1/classinfo/pkg/models"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, lookupClass)
	stop()
	os.Exit(code)
}

func lookupClass(ctx context.Context, cfg *config.AppConfig, log logrus.FieldLogger, classNumber string) models.Result {
	return scraper.New(cfg, log).Lookup(ctx, classNumber)
}
