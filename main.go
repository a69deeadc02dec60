package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/wordbag/internal/cli"
	"github.com/robalobadob/wordle/apps/wordbag/internal/config"
)

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	if lvl, err := zerolog.ParseLevel(config.Load().LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := cli.NewRootCommand().Execute(); err != nil {
		log.Fatal().Err(err).Msg("wordbag exited")
	}
}
