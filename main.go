package main

import (
	"context"
	"flag"

	"github.com/username/altpipe/src/config"
	"github.com/username/altpipe/src/database"
	"github.com/username/altpipe/src/logger"
	"github.com/username/altpipe/src/parsers/rivernorth"
	"github.com/username/altpipe/src/services"
	"github.com/username/altpipe/src/store"
)

// command is the closed set of things the pipeline can be told to do.
type command int

const (
	cmdUnknown command = iota
	cmdBuild
	cmdDrop
	cmdParseRN
	cmdSummarizeRN
)

func parseCommand(name string) command {
	switch name {
	case "build":
		return cmdBuild
	case "drop":
		return cmdDrop
	case "parsern":
		return cmdParseRN
	case "summarizern":
		return cmdSummarizeRN
	default:
		return cmdUnknown
	}
}

func main() {
	name := flag.String("name", "", "subcommand to run: build, drop, parsern, summarizern")
	count := flag.Int("count", 1, "number of times to repeat the subcommand")
	flag.Parse()

	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("altpipe pipeline starting...")

	// Connection failure is fatal inside InitDB; everything past this point
	// exits 0 and reports problems through the log.
	database.InitDB(config.Cfg.StagingDSN(), config.Cfg.DownstreamDSN())

	tradeStore := store.NewTradeStore(database.Staging)
	summaryStore := store.NewSummaryStore(database.Downstream)
	pipeline := services.NewPipelineService(config.Cfg.InputPaths, tradeStore, tradeStore, summaryStore)

	ctx := context.Background()
	cmd := parseCommand(*name)
	logger.L.Info("Dispatching", "name", *name, "count", *count)

	for i := 0; i < *count; i++ {
		switch cmd {
		case cmdBuild:
			if err := database.BuildTradesTable(database.Staging); err != nil {
				logger.L.Error("Failed to build the trades table", "error", err)
			} else {
				logger.L.Info("Built the trades table.")
			}
		case cmdDrop:
			if err := database.DropTradesTable(database.Staging); err != nil {
				logger.L.Error("Failed to drop the trades table", "error", err)
			} else {
				logger.L.Info("Dropped the trades table.")
			}
		case cmdParseRN:
			if err := pipeline.IngestFiles(ctx, rivernorth.Handle); err != nil {
				logger.L.Error("Failed to ingest rivernorth files", "error", err)
			} else {
				logger.L.Info("Ingested the rivernorth files.")
			}
		case cmdSummarizeRN:
			if err := pipeline.Summarize(ctx, rivernorth.Handle); err != nil {
				logger.L.Error("Failed to summarize rivernorth trades", "error", err)
			} else {
				logger.L.Info("Summarized and chained the rivernorth trades.")
			}
		case cmdUnknown:
			logger.L.Info("No idea what you're telling me to do", "name", *name)
		}
	}
}
