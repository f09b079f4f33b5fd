package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/ats-matcher/internal/config"
	"github.com/jonathan/ats-matcher/internal/db"
	"github.com/jonathan/ats-matcher/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing keyword extraction, scoring, and
suggestion endpoints. Keyword extraction needs llm.api_key (GEMINI_API_KEY);
user tokens need server.jwt_secret (JWT_SECRET).`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().Int("quota", 50, "Keyword extractions per authenticated user per hour")
	mustBind("server.port", serveCmd.Flags().Lookup("port"))
	mustBind("server.quota_per_hour", serveCmd.Flags().Lookup("quota"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, "")
	if err != nil {
		return err
	}
	defer a.close()
	if a.llm == nil {
		log.Warn("llm.api_key is not set, POST /keyword-extraction will answer 503")
	}

	var jwtCfg *config.JWTConfig
	if cfg.Server.JWTSecret != "" {
		jwtCfg, err = cfg.JWT()
		if err != nil {
			return fmt.Errorf("failed to create JWT config: %w", err)
		}
	}

	var store db.Store
	if s, err := openStore(ctx, cfg); err != nil {
		log.Warn("score history disabled", zap.Error(err))
	} else {
		store = s
		defer func() { _ = store.Close() }()
	}

	srv := server.New(server.Config{
		Port:               cfg.Server.Port,
		AnonKey:            cfg.Server.AnonKey,
		QuotaPerHour:       cfg.Server.QuotaPerHour,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		JWT:                jwtCfg,
	}, server.Deps{
		Analyzer: a.analyzer,
		LLM:      a.llm,
		Store:    store,
	}, log)

	return srv.Start(ctx)
}
