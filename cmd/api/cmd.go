package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GregMSThompson/hisaab-profiles/internal/bootstrap"
	"github.com/GregMSThompson/hisaab-profiles/internal/config"
	"github.com/GregMSThompson/hisaab-profiles/internal/handlers"
	"github.com/GregMSThompson/hisaab-profiles/internal/render"
	"github.com/GregMSThompson/hisaab-profiles/internal/response"
	"github.com/GregMSThompson/hisaab-profiles/internal/router"
	"github.com/GregMSThompson/hisaab-profiles/internal/services"
	"github.com/GregMSThompson/hisaab-profiles/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// config
	cfg, err := config.New()
	exitOnError("config failed", err, slog.Default())

	// bootstrap
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.ToContext(ctx, bs.Log)

	// services
	pstore := services.NewProfileStore(bs.Remote, bs.Cache)
	pserv := services.NewProfileService(pstore)
	partserv := services.NewParticipantService(bs.Cache, cfg.DefaultParticipants)

	// render hub
	hub := render.NewHub(pstore, partserv)
	pstore.OnChange(hub.ProfilesChanged)
	partserv.OnChange(hub.ParticipantsChanged)
	go hub.Run(ctx)

	pstore.Initialize(ctx)

	// live log level
	if path := os.Getenv("CONFIGFILE"); path != "" {
		go func() {
			err := config.Watch(ctx, bs.Log, path, func(c *config.Config) {
				bs.LogLevel.Set(logger.ParseLevel(c.LogLevel))
			})
			if err != nil {
				bs.Log.Error("config watch stopped", "error", err)
			}
		}()
	}

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.ProfileStore = pstore
	deps.ProfileSvc = pserv
	deps.ParticipantSvc = partserv
	deps.RenderHub = hub

	// router
	r := router.NewRouter(deps)
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			bs.Log.Error("server shutdown failed", "error", err)
		}
	}()

	bs.Log.Info("server listening", "addr", cfg.HTTPAddr)
	err = srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	exitOnError("server start failed", err, bs.Log)
}
