package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/dvloznov/finanzas-demo/internal/categorizer"
	"github.com/dvloznov/finanzas-demo/internal/commands"
	"github.com/dvloznov/finanzas-demo/internal/config"
	"github.com/dvloznov/finanzas-demo/internal/logger"
)

func main() {
	cfg := config.Load()
	log := logger.NewWithLevel(cfg.Logger.Level)

	fs := flag.NewFlagSet("categorize", flag.ExitOnError)
	opts := commands.BindCategorizeFlags(fs, cfg)
	fs.Parse(os.Args[1:])

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	err := commands.Categorize(ctx, cfg, *opts, os.Stdin, os.Stdout, log)
	if errors.Is(err, categorizer.ErrAborted) {
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Categorization failed")
	}
}
