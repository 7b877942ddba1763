package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/mcp"
	"github.com/claude/liftlog/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Speaks MCP over stdio in one of two modes: local (direct database access,
// -config plus -user) or remote (REST API access, -url plus -token).
func main() {
	configPath := flag.String("config", "", "path to config file (local mode)")
	email := flag.String("user", "", "email of the account to serve (local mode)")
	baseURL := flag.String("url", "", "base URL of a running LiftLog server (remote mode)")
	token := flag.String("token", "", "bearer token for the remote server (remote mode)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	var userID uuid.UUID

	switch {
	case *baseURL != "" && *token != "":
		ds = mcp.NewHTTPClient(*baseURL, *token)
		// The token already scopes every request to one user; the bound id
		// only needs to be non-nil.
		userID = uuid.New()
		log.Info("remote mode", "url", *baseURL)

	case *configPath != "" && *email != "":
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		user, err := db.GetUserByEmail(context.Background(), *email)
		if err != nil {
			log.Error("user not found", "email", *email, "error", err)
			os.Exit(1)
		}
		ds = db
		userID = user.ID
		log.Info("local mode", "user", *email)

	default:
		fmt.Fprintf(os.Stderr, "Usage:\n  liftlog-mcp -config config.yaml -user you@example.com\n  liftlog-mcp -url https://liftlog.example -token <bearer>\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	s := mcp.New(ds, Version, log)
	err := mcpserver.ServeStdio(s, mcpserver.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return mcp.WithUserID(ctx, userID)
	}))
	if err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
