// Package tinyledger provides the API to manage accounts and their ledger
// transactions.
package main

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tinyledger/tinyledger/cmd/httpserver"
	"github.com/tinyledger/tinyledger/internal/accountrepo"
	"github.com/tinyledger/tinyledger/internal/entryrepo"
	"github.com/tinyledger/tinyledger/internal/events"
	"github.com/tinyledger/tinyledger/internal/events/kafka"
	"github.com/tinyledger/tinyledger/internal/middleware"
	"github.com/tinyledger/tinyledger/pkg/configpkg"
	"github.com/tinyledger/tinyledger/pkg/dbpkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	var (
		accountRepo httpserver.AccountRepo
		entryRepo   httpserver.EntryRepo
	)

	if config.DBDriver == configpkg.MemoryDriver {
		accountRepo = accountrepo.NewRepoMem()
		entryRepo = entryrepo.NewRepoMem()
	} else {
		db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot connect to database")
		}

		accountRepo = accountrepo.NewRepoPGS(db)
		entryRepo = entryrepo.NewRepoPGS(db)
	}

	var publisher events.Publisher = events.Noop{}

	if config.KafkaBrokers != "" {
		kafkaPublisher := kafka.NewPublisher(strings.Split(config.KafkaBrokers, ","))
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				logger.Error().Err(err).Msg("cannot close kafka publisher")
			}
		}()

		publisher = kafkaPublisher
	}

	server, err := httpserver.New(accountRepo, entryRepo, publisher, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Msg("TINY LEDGER API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
