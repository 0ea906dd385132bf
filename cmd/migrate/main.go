package main

import (
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"

	"github.com/go-petr/portfolio-tracker/pkg/configpkg"
	"github.com/go-petr/portfolio-tracker/pkg/dbpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	conn, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal().Err(err).Msg("cannot set goose dialect")
	}

	if err := goose.Up(conn, "./migrations"); err != nil {
		log.Fatal().Err(err).Msg("cannot apply migrations")
	}

	log.Info().Msg("database migration completed")
}
