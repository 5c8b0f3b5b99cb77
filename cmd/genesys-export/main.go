package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/mantle-data/genesys-export/internal/config"
	"github.com/mantle-data/genesys-export/internal/extract"
	"github.com/mantle-data/genesys-export/internal/genesys"
	"github.com/mantle-data/genesys-export/internal/state"
	"github.com/mantle-data/genesys-export/internal/tables"
)

func main() {
	os.Exit(run())
}

func run() int {
	dataDir := flag.String("data-dir", "", "data directory (default $KBC_DATADIR, then /data)")
	flag.Parse()

	setupLogging(false)

	cfg, err := config.Load(*dataDir)
	if err != nil {
		return fail(err)
	}
	if cfg.Debug {
		setupLogging(true)
	}

	logger := slog.Default().With("run_id", uuid.NewString())
	logger.Info("genesys export starting",
		"data_dir", cfg.DataDir,
		"window_days", cfg.LastDaysInterval,
	)

	ctx := context.Background()

	prev, err := state.Load(cfg.DataDir)
	if err != nil {
		return fail(err)
	}
	if !prev.LastRunAt.IsZero() {
		logger.Info("previous run",
			"at", prev.LastRunAt,
			"interval", prev.LastInterval,
			"conversations", prev.ConversationsExtracted,
		)
	}

	client := genesys.NewClient(ctx, genesys.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.Password,
		CloudURL:     cfg.CloudURL,
	})
	writer := tables.NewWriter(cfg.OutTablesDir())
	pipeline := extract.NewPipeline(client, writer, cfg.LastDaysInterval, logger)

	summary, err := pipeline.Run(ctx, time.Now().UTC())
	if err != nil {
		return fail(err)
	}

	next := state.State{
		LastRunAt:              time.Now().UTC(),
		LastInterval:           summary.Interval,
		ConversationsExtracted: summary.Conversations,
	}
	if err := next.Save(cfg.DataDir); err != nil {
		return fail(err)
	}

	logger.Info("extraction complete",
		"interval", summary.Interval,
		"pages", summary.Pages,
		"conversations", summary.Conversations,
		"agent_rows", summary.AgentRows,
		"wrap_up_rows", summary.WrapUpRows,
	)
	return 0
}

// fail maps an error to the process exit code: 1 for operator-fixable
// configuration problems, 2 for everything else.
func fail(err error) int {
	var ue *config.UserError
	if errors.As(err, &ue) {
		slog.Error("configuration error", "error", err)
		return 1
	}
	slog.Error("run failed", "error", err)
	return 2
}

func setupLogging(debug bool) {
	lvl := slog.LevelInfo
	if debug {
		lvl = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
