package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"farmcore/internal/dynaflow"
	"farmcore/internal/server"
)

const readHeaderTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var noWorker bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and process queued dyna flows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, opts, !noWorker)
		},
	}
	cmd.Flags().BoolVar(&noWorker, "no-worker", false, "serve the API without running dyna flows")
	return cmd
}

func serve(ctx context.Context, opts *rootOptions, runWorker bool) error {
	a, err := openApp(ctx, opts, true)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	queue, err := a.openQueue(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = queue.Close() }()
	dispatcher := dynaflow.NewDispatcher(a.svc, nil, queue)

	srvOpts := []server.Option{server.WithMetrics(a.registry), server.WithLogger(a.logger)}
	provider, exporter, err := a.reports(ctx)
	switch {
	case errors.Is(err, errNoSQLStore):
		a.logger.Warn("report routes disabled", "storage", a.cfg.Storage.Driver)
	case err != nil:
		return err
	default:
		srvOpts = append(srvOpts, server.WithReports(provider, exporter))
	}

	gin.SetMode(gin.ReleaseMode)
	httpSrv := &http.Server{
		Addr:              a.cfg.Server.Addr(),
		Handler:           server.NewServer(a.svc, dispatcher, srvOpts...).SetupRoutes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	var worker *dynaflow.Worker
	if runWorker {
		worker = dynaflow.NewWorker(queue, dynaflow.NewRunner(a.svc, nil))
		worker.Start()
		n, err := dispatcher.Requeue(ctx)
		if err != nil {
			_ = worker.Stop(context.Background())
			return err
		}
		a.logger.Info("requeued pending dyna flows", "count", n)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("farmcore listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		err := httpSrv.Shutdown(shutdownCtx)
		if worker != nil {
			err = errors.Join(err, worker.Stop(shutdownCtx))
		}
		a.logger.Info("farmcore stopped")
		return err
	})
	return g.Wait()
}
