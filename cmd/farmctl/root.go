package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"farmcore/internal/blob"
	"farmcore/internal/config"
	"farmcore/internal/core"
	"farmcore/internal/dynaflow"
	"farmcore/internal/reports"
)

var errNoSQLStore = errors.New("reports need the sqlite or postgres storage driver")

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "farmctl",
		Short:         "Run and administer a farmcore deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (FARMCORE_* variables override it)")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newBootstrapCmd(opts),
		newReportCmd(opts),
		newDynaFlowCmd(opts),
	)
	return cmd
}

// app holds the resources shared by every subcommand.
type app struct {
	cfg      *config.Config
	zap      *zap.Logger
	logger   core.Logger
	store    core.PersistentStore
	svc      *core.Service
	registry *prometheus.Registry
	trace    *os.File
}

// openApp loads configuration, builds the logger and opens the store. With
// metrics set the service reports to a fresh Prometheus registry.
func openApp(ctx context.Context, opts *rootOptions, metrics bool) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	zl, err := core.BuildZapLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, zap: zl, logger: core.NewZapLogger(zl)}

	svcOpts := []core.ServiceOption{core.WithLogger(a.logger)}
	if cfg.Log.Audit {
		svcOpts = append(svcOpts, core.WithAuditRecorder(core.NewZapAuditRecorder(zl)))
	}
	if cfg.Log.TracePath != "" {
		a.trace, err = os.OpenFile(cfg.Log.TracePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open trace file: %w", err)
		}
		svcOpts = append(svcOpts, core.WithTracer(core.NewJSONTracer(a.trace)))
	}
	if metrics {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		rec, err := core.NewPrometheusMetricsRecorder(a.registry)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		svcOpts = append(svcOpts, core.WithMetricsRecorder(rec))
	}

	a.store, err = core.OpenPersistentStore(ctx, cfg.StorageOptions(), core.NewDefaultRulesEngine())
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	a.svc = core.NewService(a.store, svcOpts...)
	return a, nil
}

func (a *app) Close() error {
	var err error
	if a.store != nil {
		err = core.CloseStore(a.store)
	}
	if a.trace != nil {
		err = errors.Join(err, a.trace.Close())
	}
	_ = a.zap.Sync()
	return err
}

func (a *app) openQueue(ctx context.Context) (dynaflow.Queue, error) {
	q := a.cfg.Queue
	if q.Driver != config.QueueRedis {
		return dynaflow.NewChannelQueue(q.Size), nil
	}
	return dynaflow.DialRedisQueue(ctx,
		&redis.Options{Addr: q.RedisAddr, Password: q.Password, DB: q.DB},
		dynaflow.WithQueueKey(q.Key),
		dynaflow.WithPollTimeout(q.PollTimeout),
	)
}

// reports returns the provider and exporter, or errNoSQLStore when the
// store keeps no SQL tables.
func (a *app) reports(ctx context.Context) (*reports.Provider, *reports.Exporter, error) {
	sqlStore, ok := a.store.(core.SQLStore)
	if !ok {
		return nil, nil, errNoSQLStore
	}
	provider := reports.NewProvider(sqlStore.DB(), sqlStore.Dialect(), reports.WithLogger(a.logger))
	bs, err := blob.Open(ctx, a.cfg.Blob)
	if err != nil {
		return nil, nil, err
	}
	exporter := reports.NewExporter(provider, bs,
		reports.WithURLExpiry(a.cfg.Reports.URLExpiry),
		reports.WithExportLogger(a.logger),
	)
	return provider, exporter, nil
}
