package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/willow/config"
	"github.com/Ramsey-B/willow/pkg/redis"
	"github.com/Ramsey-B/willow/pkg/storage"
	"github.com/Ramsey-B/willow/pkg/tracing"
)

const (
	driverMemory = "memory"
	driverFile   = "file"
	driverRedis  = "redis"
)

const (
	exporterStdout = "stdout"
	exporterOTLP   = "otlp"
)

type tracingDependency struct {
	cfg      *config.Config
	w        io.Writer
	shutdown func(context.Context) error
}

func newTracingDependency(cfg *config.Config, w io.Writer) *tracingDependency {
	return &tracingDependency{cfg: cfg, w: w}
}

func (d *tracingDependency) GetName() string     { return "tracing" }
func (d *tracingDependency) DependsOn() []string { return nil }

func (d *tracingDependency) Start(ctx context.Context) error {
	if !d.cfg.TracingEnabled {
		return nil
	}

	var shutdown func(context.Context) error
	var err error
	switch d.cfg.TracingExporter {
	case exporterStdout:
		shutdown, err = tracing.Setup(d.cfg.AppName, d.w)
	case exporterOTLP:
		otlp := tracing.DefaultOTLPConfig()
		otlp.Endpoint = d.cfg.OTLPEndpoint
		otlp.Protocol = d.cfg.OTLPProtocol
		otlp.Insecure = d.cfg.OTLPInsecure
		shutdown, err = tracing.SetupOTLP(ctx, d.cfg.AppName, otlp)
	default:
		err = fmt.Errorf("unknown tracing exporter %q", d.cfg.TracingExporter)
	}
	if err != nil {
		return err
	}
	d.shutdown = shutdown
	return nil
}

func (d *tracingDependency) Stop(ctx context.Context) error {
	if d.shutdown == nil {
		return nil
	}
	err := d.shutdown(ctx)
	d.shutdown = nil
	return err
}

type storageDependency struct {
	cfg    *config.Config
	logger ectologger.Logger
	client *redis.Client
	store  *storage.Store
}

func newStorageDependency(cfg *config.Config, logger ectologger.Logger) *storageDependency {
	return &storageDependency{cfg: cfg, logger: logger}
}

func (d *storageDependency) GetName() string     { return "storage" }
func (d *storageDependency) DependsOn() []string { return []string{"tracing"} }

func (d *storageDependency) Start(ctx context.Context) error {
	var backend storage.Backend
	switch d.cfg.StorageDriver {
	case driverMemory:
		backend = storage.NewMemoryBackend()
	case driverFile:
		fileBackend, err := storage.NewFileBackend(d.cfg.StorageFileDir)
		if err != nil {
			return err
		}
		backend = fileBackend
	case driverRedis:
		client, err := redis.NewClient(redis.Config{
			Host:     d.cfg.RedisHost,
			Port:     d.cfg.RedisPort,
			Password: d.cfg.RedisPassword,
			DB:       d.cfg.RedisDB,
		}, d.logger)
		if err != nil {
			return err
		}
		d.client = client
		backend = storage.NewRedisBackend(client)
	default:
		return fmt.Errorf("unknown storage driver %q", d.cfg.StorageDriver)
	}

	d.store = storage.NewStore(backend, d.logger,
		storage.WithNamespace(d.cfg.StorageNamespace),
		storage.WithMetrics(d.cfg.MetricsEnabled),
	)
	d.logger.WithContext(ctx).WithField("driver", d.cfg.StorageDriver).Debug("Storage ready")
	return nil
}

func (d *storageDependency) Stop(context.Context) error {
	if d.client == nil {
		return nil
	}
	err := d.client.Close()
	d.client = nil
	return err
}

func (d *storageDependency) Store() *storage.Store {
	return d.store
}
