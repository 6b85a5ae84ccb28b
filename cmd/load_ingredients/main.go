package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	applog "github.com/pageza/foodgram/backend/internal/log"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	path := flag.String("file", "data/ingredients.csv", "CSV file with name,measurement_unit rows")
	flag.Parse()
	if flag.NArg() > 0 {
		*path = flag.Arg(0)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applog.Init(applog.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, ServiceName: "foodgram-load-ingredients"})
	logger := applog.L()

	db, err := database.New(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	f, err := os.Open(*path)
	if err != nil {
		logger.Fatal().Err(err).Str("file", *path).Msg("failed to open ingredients file")
	}
	defer f.Close()

	result, err := service.NewCatalogService(db).ImportIngredients(context.Background(), f)
	if err != nil {
		logger.Fatal().Err(err).Str("file", *path).Msg("ingredient import failed")
	}

	logger.Info().
		Str("file", *path).
		Int64("created", result.Created).
		Int64("skipped", result.Skipped).
		Msg("ingredients loaded")
}
