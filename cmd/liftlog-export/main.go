package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/export"
	"github.com/claude/liftlog/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	email := flag.String("user", "", "email of the account to export (required)")
	outPath := flag.String("out", "liftlog-history.db", "path of the SQLite file to write")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *email == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-export -config config.yaml -user you@example.com [-out history.db]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	user, err := db.GetUserByEmail(ctx, *email)
	if err != nil {
		log.Error("user not found", "email", *email, "error", err)
		os.Exit(1)
	}

	summary, err := export.Run(ctx, db, user.ID, *outPath)
	if err != nil {
		log.Error("export failed", "error", err)
		os.Exit(1)
	}

	log.Info("export complete",
		"path", *outPath,
		"exercises", summary.Exercises,
		"sessions", summary.Sessions,
		"sets", summary.Sets,
	)
}
