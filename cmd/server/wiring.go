package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	candidateshandler "sotadiploma/internal/candidates/handler"
	candidatesmetrics "sotadiploma/internal/candidates/metrics"
	candidatesservice "sotadiploma/internal/candidates/service"
	diplomahandler "sotadiploma/internal/diplomalog/handler"
	diplomaports "sotadiploma/internal/diplomalog/ports"
	diplomaservice "sotadiploma/internal/diplomalog/service"
	diplomastore "sotadiploma/internal/diplomalog/store"
	"sotadiploma/internal/integrity"
	"sotadiploma/internal/notify"
	"sotadiploma/internal/platform/config"
	"sotadiploma/internal/platform/database"
	"sotadiploma/internal/platform/health"
	"sotadiploma/internal/platform/kafka/producer"
	"sotadiploma/internal/platform/metrics"
	"sotadiploma/internal/platform/redis"
	"sotadiploma/internal/platform/scheduler"
	"sotadiploma/internal/sotaapi"
	summithandler "sotadiploma/internal/summit/handler"
	"sotadiploma/internal/summit/listsync"
	summitstore "sotadiploma/internal/summit/store"
	throttlemetrics "sotadiploma/internal/throttle/metrics"
	throttlemw "sotadiploma/internal/throttle/middleware"
	throttlemodels "sotadiploma/internal/throttle/models"
	throttleports "sotadiploma/internal/throttle/ports"
	throttleservice "sotadiploma/internal/throttle/service"
	"sotadiploma/internal/throttle/store/counter"
	adminmw "sotadiploma/pkg/platform/middleware/admin"
	"sotadiploma/pkg/platform/middleware/metadata"
	"sotadiploma/pkg/platform/middleware/requesttime"
)

const (
	topicPartitions        = 3
	topicReplicationFactor = 1
)

// summitStore is what the summit routes, the list synchronizer and the
// eligibility check need from the summit persistence.
type summitStore interface {
	listsync.Store
	summithandler.Store
	candidatesservice.SummitCatalog
}

type application struct {
	router    http.Handler
	scheduler *scheduler.Scheduler
	syncer    *listsync.Synchronizer
	syncFirst bool
	logger    *slog.Logger
	closers   []func()
}

func build(ctx context.Context, cfg config.Config, log *slog.Logger) (*application, error) {
	trustedProxies, err := metadata.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, err
	}

	app := &application{
		scheduler: scheduler.New(scheduler.WithLogger(log)),
		syncFirst: cfg.Summits.SyncOnStartup,
		logger:    log,
	}
	checks := health.New()

	platformMetrics := metrics.New()
	platformMetrics.SetBuildInfo(version)

	counters, err := app.counterStore(ctx, cfg, checks)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	var (
		summits summitStore
		entries diplomaports.EntryStore
	)
	if db != nil {
		log.Info("using sql persistence", "dialect", db.Dialect)
		summits = summitstore.NewSQL(db)
		entries = diplomastore.NewSQL(db)
		checks.AddCheck("database", db.Health)
		app.closers = append(app.closers, func() { _ = db.Close() })
	} else {
		log.Warn("no database configured, summits and diploma requests are kept in memory")
		summits = summitstore.NewInMemory()
		entries = diplomastore.NewInMemory()
	}

	publisher, err := app.publisher(ctx, cfg, checks)
	if err != nil {
		return nil, err
	}

	sota, err := sotaapi.New(cfg.SOTA,
		sotaapi.WithLogger(log),
		sotaapi.WithMetrics(sotaapi.NewMetrics()),
	)
	if err != nil {
		return nil, fmt.Errorf("create sota api client: %w", err)
	}
	app.closers = append(app.closers, sota.Close)

	signer, err := integrity.NewSigner(integrity.WithLogger(log))
	if err != nil {
		return nil, err
	}

	diplomas, err := diplomaservice.New(entries,
		diplomaservice.WithLogger(log),
		diplomaservice.WithPublisher(publisher),
	)
	if err != nil {
		return nil, err
	}

	candidateOpts := []candidatesservice.Option{
		candidatesservice.WithLogger(log),
		candidatesservice.WithMetrics(candidatesmetrics.New()),
		candidatesservice.WithActivationSource(sota),
	}
	if after := cfg.Diploma.CheckAfterDate(); after != nil {
		candidateOpts = append(candidateOpts, candidatesservice.WithCheckAfter(*after))
	}
	candidates, err := candidatesservice.New(sota, summits, diplomas, signer, candidateOpts...)
	if err != nil {
		return nil, err
	}

	app.syncer, err = listsync.New(summits, cfg.Summits.ListURL, listsync.WithLogger(log))
	if err != nil {
		return nil, err
	}
	checks.AddReadiness("summit_list", app.syncer.InitialSynchronizationCompleted)

	throttle, err := throttleservice.New(counters,
		throttleservice.WithLogger(log),
		throttleservice.WithMetrics(throttlemetrics.New()),
		throttleservice.WithLimit(cfg.Throttle.RequestsPerMinute),
		throttleservice.WithWindowPolicy(throttlemodels.ParseWindowPolicy(cfg.Throttle.Window)),
	)
	if err != nil {
		return nil, err
	}

	if err := app.schedule(cfg, sota); err != nil {
		return nil, err
	}

	candidatesHandler := candidateshandler.New(candidates, log,
		candidateshandler.WithThrottle(throttlemw.New(throttle, log).Throttle),
		candidateshandler.WithCacheClearers(sota),
	)
	summitsHandler := summithandler.New(summits, app.syncer, log)
	diplomasHandler := diplomahandler.New(diplomas, log)

	r := chi.NewRouter()
	r.Use(metadata.RequestID)
	r.Use(metadata.ClientMetadataWithTrustedProxies(trustedProxies))
	r.Use(requesttime.Middleware)
	r.Use(metrics.Instrument(platformMetrics))

	candidatesHandler.Register(r)
	summitsHandler.Register(r)
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(cfg.Server.AdminToken, log))
		candidatesHandler.RegisterAdmin(r)
		summitsHandler.RegisterAdmin(r)
		diplomasHandler.RegisterAdmin(r)
	})
	r.Get("/health", checks.Live)
	r.Get("/health/ready", checks.Ready)
	r.Handle("/metrics", metrics.Handler())

	if cfg.Server.AdminToken == "" {
		log.Warn("ADMIN_API_TOKEN is not set, admin routes reject every request")
	}
	app.router = r
	return app, nil
}

func (app *application) counterStore(ctx context.Context, cfg config.Config, checks *health.Handler) (throttleports.CounterStore, error) {
	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if client != nil {
		checks.AddCheck("redis", client.Health)
		app.closers = append(app.closers, func() { _ = client.Close() })
		return counter.NewRedis(client.Client), nil
	}

	app.logger.Info("no redis configured, throttle counters are kept in process")
	mem := counter.NewInMemory()
	err = app.scheduler.Add("throttle-sweep", "* * * * *", func(context.Context) error {
		if n := mem.Sweep(); n > 0 {
			app.logger.Debug("expired throttle counters removed", "count", n)
		}
		return nil
	})
	return mem, err
}

func (app *application) publisher(ctx context.Context, cfg config.Config, checks *health.Handler) (diplomaservice.Publisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		app.logger.Info("no kafka brokers configured, diploma requests are only logged")
		return notify.NewLogPublisher(app.logger), nil
	}

	p, err := producer.New(cfg.Kafka.Brokers, producer.WithLogger(app.logger))
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	app.closers = append(app.closers, p.Close)

	topicCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := p.EnsureTopic(topicCtx, cfg.Kafka.Topic, topicPartitions, topicReplicationFactor); err != nil {
		// Brokers with auto-creation or restricted admin rights still accept
		// produce requests.
		app.logger.Warn("could not ensure kafka topic", "topic", cfg.Kafka.Topic, "error", err)
	}
	checks.AddCheck("kafka", p.Ping)

	return notify.NewKafkaPublisher(p, cfg.Kafka.Topic, notify.WithLogger(app.logger))
}

func (app *application) schedule(cfg config.Config, sota *sotaapi.Client) error {
	if err := app.scheduler.Add("summit-list-sync", cfg.Summits.SyncSchedule, func(ctx context.Context) error {
		_, err := app.syncer.Synchronize(ctx)
		return err
	}); err != nil {
		return err
	}
	return app.scheduler.Add("sota-cache-invalidation", cfg.Summits.CacheInvalidationSchedule, func(context.Context) error {
		sota.ClearCaches()
		app.logger.Info("sota api caches cleared")
		return nil
	})
}

func (app *application) start() {
	if app.syncFirst {
		app.scheduler.RunNow("summit-list-initial-sync", app.syncer.SynchronizeInitial)
	}
	app.scheduler.Start()
}

func (app *application) close(ctx context.Context) {
	if err := app.scheduler.Stop(ctx); err != nil {
		app.logger.Warn("scheduler did not stop cleanly", "error", err)
	}
	for i := len(app.closers) - 1; i >= 0; i-- {
		app.closers[i]()
	}
}
