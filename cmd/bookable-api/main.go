// @title         bookable API
// @version       1.0
// @description   Provider search and availability
// @BasePath      /api/v1

package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"bookable/internal/modkit/repokit"
	"bookable/internal/platform/config"
	"bookable/internal/platform/logger"
	phttp "bookable/internal/platform/net/http"
	"bookable/internal/platform/store"
	"bookable/internal/platform/trace"

	"bookable/internal/services/api"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	opts := logger.FromEnv()
	if opts.Service == "" {
		opts.Service = "bookable-api"
	}
	logger.Init(opts)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTrace, err := trace.Setup(ctx, trace.FromConfig(root.Prefix("OTEL_")))
	if err != nil {
		l.Panic().Err(err).Msg("trace.Setup failed")
	}

	st, err := store.Open(ctx, store.FromConfig(root, "bookable"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	repokit.MustGuard(ctx, st)

	// http server (reads CORE_API_PORT / CORE_API_REQUEST_TIMEOUT / CORE_API_SHUTDOWN_TIMEOUT)
	srv := phttp.NewServer(apiCfg)

	searchlog := api.Mount(srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})

	// the recorder outlives the server so events from draining requests still land
	recCtx, stopRec := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := searchlog.Run(recCtx); err != nil {
			l.Error().Err(err).Msg("search event recorder stopped with errors")
		}
	}()

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}

	stopRec()
	wg.Wait()

	cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := st.Close(cctx); err != nil {
		l.Error().Err(err).Msg("failed to close store")
	}
	if err := shutdownTrace(cctx); err != nil {
		l.Error().Err(err).Msg("failed to flush traces")
	}
	l.Info().Msg("bye")
}
