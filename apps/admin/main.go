package main

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/storage/database"
	sqlxrepos "github.com/trezcool/darasa/storage/database/sqlx"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Str("component", "ADMIN").Logger()

	conf, err := core.NewConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("loading config")
	}

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal().Err(err).Msg("opening database")
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		logger.Fatal().Err(err).Msg("pinging database")
	}

	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		db:       db.DB,
		usrSvc:   user.NewService(sqlxrepos.NewUserRepository(db)),
		validate: validate,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error().Err(err).Msg("command failed")
		}
		os.Exit(1)
	}
}
