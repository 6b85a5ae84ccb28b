package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	applog "github.com/pageza/foodgram/backend/internal/log"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

var defaultTags = []types.TagInput{
	{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
	{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
}

func main() {
	file := flag.String("tags", "", "Optional JSON file with [{name, color, slug}] tags to seed instead of the defaults")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applog.Init(applog.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, ServiceName: "foodgram-seed"})
	logger := applog.L()

	tags := defaultTags
	if *file != "" {
		if tags, err = readTags(*file); err != nil {
			logger.Fatal().Err(err).Str("file", *file).Msg("failed to read tags")
		}
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	created, err := service.NewCatalogService(db).SeedTags(context.Background(), tags)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to seed tags")
	}
	logger.Info().Int64("created", created).Int("requested", len(tags)).Msg("tags seeded")
}

func readTags(path string) ([]types.TagInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tags []types.TagInput
	if err := json.Unmarshal(data, &tags); err != nil {
		return nil, fmt.Errorf("invalid tags file: %w", err)
	}
	return tags, nil
}
