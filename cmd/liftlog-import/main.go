package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/importer"
	"github.com/claude/liftlog/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	filePath := flag.String("file", "", "path to training-log CSV export (required)")
	email := flag.String("user", "", "email of the account to import into (required)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *filePath == "" || *email == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-import -config config.yaml -user you@example.com -file export.csv\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, storage.DefaultMigrationsPath); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
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

	f, err := os.Open(*filePath)
	if err != nil {
		log.Error("cannot open export", "path", *filePath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	result, err := importer.New(db, log).Run(ctx, user.ID, f)
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}

	log.Info("import complete",
		"sessions_imported", result.SessionsImported,
		"sets_imported", result.SetsImported,
		"sets_skipped", result.SetsSkipped,
	)
	if len(result.ExercisesCreated) > 0 {
		log.Info("new exercises created", "names", result.ExercisesCreated)
	}
}
