package main

import (
	"context"
	"flag"
	"os"

	"github.com/dvloznov/finanzas-demo/internal/commands"
	"github.com/dvloznov/finanzas-demo/internal/config"
	"github.com/dvloznov/finanzas-demo/internal/gcsuploader"
	"github.com/dvloznov/finanzas-demo/internal/logger"
)

func main() {
	cfg := config.Load()
	log := logger.NewWithLevel(cfg.Logger.Level)

	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	opts := commands.BindGenerateFlags(fs, cfg)
	fs.Parse(os.Args[1:])

	ctx := logger.WithContext(context.Background(), log)
	if err := commands.Generate(ctx, *opts, gcsuploader.NewGCSStorageService(), os.Stdout, log); err != nil {
		log.Fatal().Err(err).Msg("Generation failed")
	}
}
