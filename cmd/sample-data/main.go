package main

import (
	"context"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/okian/assay/internal/sampledata"
	"github.com/okian/assay/pkg/logger"
)

// Default run parameters.
const (
	defaultRunTimeout = 2 * time.Minute
)

func main() {
	defaults := sampledata.DefaultConfig()
	var (
		baseURL      = flag.String("url", "http://localhost:9090", "Base URL of the service")
		dataset      = flag.String("dataset", "sample", "Dataset name to upload as")
		groups       = flag.Int("groups", defaults.Groups, "Number of groups")
		entities     = flag.Int("entities", defaults.Entities, "Number of entities")
		capabilities = flag.Int("capabilities", defaults.Capabilities, "Number of capabilities per entity")
		passes       = flag.Int("passes", defaults.Passes, "Number of assessment passes per entity")
		seed         = flag.Int64("seed", defaults.Seed, "Generation seed")
		outputFile   = flag.String("output", "", "Write the generated CSV to a file instead of uploading")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	data, err := sampledata.GenerateCSV(sampledata.Config{
		Groups:       *groups,
		Entities:     *entities,
		Capabilities: *capabilities,
		Passes:       *passes,
		Seed:         *seed,
	})
	if err != nil {
		log.Fatal(ctx, "dataset generation failed", logger.Error(err))
	}
	log.Info(ctx, "dataset generated", logger.Int("bytes", len(data)))

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, data, 0o600); err != nil {
			log.Fatal(ctx, "write output file failed", logger.Error(err))
		}
		log.Info(ctx, "dataset written", logger.String("file", *outputFile))
		return
	}

	client := sampledata.NewClient(*baseURL)
	records, err := client.Upload(ctx, *dataset, data)
	if err != nil {
		log.Fatal(ctx, "upload failed", logger.Error(err))
	}
	log.Info(ctx, "dataset uploaded",
		logger.String("dataset", *dataset),
		logger.Int("records", records),
	)

	names, err := client.Entities(ctx, *dataset)
	if err != nil {
		log.Fatal(ctx, "entity readback failed", logger.Error(err))
	}
	log.Info(ctx, "entities visible", logger.String("count", strconv.Itoa(len(names))))
}
