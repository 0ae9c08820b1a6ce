package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fortuna/oncourt/internal/anomaly"
	"github.com/fortuna/oncourt/internal/api/rest"
	"github.com/fortuna/oncourt/internal/api/websocket"
	"github.com/fortuna/oncourt/internal/cache"
	"github.com/fortuna/oncourt/internal/config"
	"github.com/fortuna/oncourt/internal/ingest/nba"
	"github.com/fortuna/oncourt/internal/ingest/rosterweb"
	"github.com/fortuna/oncourt/internal/jobs"
	"github.com/fortuna/oncourt/internal/publisher"
	"github.com/fortuna/oncourt/internal/query"
	"github.com/fortuna/oncourt/internal/scheduler"
	"github.com/fortuna/oncourt/internal/store"
)

const (
	serviceName    = "oncourt"
	serviceVersion = "1.0.0"
)

func main() {
	log.Printf("Starting %s v%s - Lineup On/Off Analytics Service", serviceName, serviceVersion)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Snapshot store
	var snapshots store.Store
	switch cfg.Store.Backend {
	case "postgres":
		pg, err := store.NewPostgresStore(cfg.Store.PostgresDSN)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pg.Close()
		snapshots = pg
		log.Println("✓ Connected to Postgres snapshot store")
	default:
		fs, err := store.NewFileStore(cfg.Store.Dir)
		if err != nil {
			log.Fatalf("Failed to open snapshot directory: %v", err)
		}
		snapshots = fs
		log.Printf("✓ File snapshot store at %s", cfg.Store.Dir)
	}

	// Metrics and anomaly monitoring
	registry := prometheus.NewRegistry()
	monitor := anomaly.NewMonitor(registry)

	// Redis: query-result cache plus the ops stream publisher
	var resultCache query.ResultCache
	var streamPublisher *publisher.RedisStreamPublisher
	if cfg.Redis.Enabled {
		redisCache, err := connectRedis(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		log.Println("✓ Connected to Redis")

		resultCache = redisCache
		streamPublisher = publisher.NewRedisStreamPublisher(redisCache.Client())
		defer streamPublisher.Close()
		monitor.AddSink(streamPublisher)
	}

	// Ingestion pipeline
	client := nba.NewClient()
	ingester := nba.NewIngester(client, snapshots, monitor)
	ingester.SetConcurrency(cfg.Ingest.Concurrency)

	if cfg.Roster.EnrichEnabled {
		rosterClient, err := rosterweb.NewClient()
		if err != nil {
			log.Fatalf("Failed to start roster scraper: %v", err)
		}
		defer rosterClient.Close()
		ingester.WithRosterEnricher(rosterweb.NewEnricher(rosterClient))
		log.Println("✓ Roster enrichment enabled")
	}

	// Query service
	querySvc := query.NewService(snapshots, resultCache)

	// Job service
	jobSvc := jobs.NewService(ingester, querySvc, nil)
	if streamPublisher != nil {
		jobSvc.AddSink(streamPublisher)
	}
	jobSvc.Start()
	log.Println("✓ Job service started")

	// Scheduler
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var orch *scheduler.Orchestrator
	if cfg.Scheduler.Enabled {
		schedConfig := scheduler.DefaultConfig()
		schedConfig.Teams = cfg.Teams
		schedConfig.Season = cfg.Season
		schedConfig.DailyHour = cfg.Scheduler.Hour
		orch = scheduler.NewOrchestrator(jobSvc, schedConfig)
		go orch.Start(ctx)
		log.Println("✓ Scheduler started")
	}

	// WebSocket ops feed
	wsServer := websocket.NewServer()
	monitor.AddSink(wsServer)
	jobSvc.AddSink(wsServer)
	go func() {
		if err := wsServer.Start(cfg.HTTP.WSAddr); err != nil {
			log.Printf("WebSocket server error: %v", err)
		}
	}()

	// REST API
	restServer := rest.NewServer(cfg.HTTP.Addr, querySvc, jobSvc, orch, registry)
	go func() {
		log.Printf("Starting REST API server on %s", cfg.HTTP.Addr)
		if err := restServer.Start(); err != nil {
			log.Printf("REST server error: %v", err)
		}
	}()

	log.Printf("✓ %s v%s started successfully", serviceName, serviceVersion)
	log.Printf("  REST API: http://0.0.0.0%s", cfg.HTTP.Addr)
	log.Printf("  Ops feed: ws://0.0.0.0%s/ws/ops", cfg.HTTP.WSAddr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")

	cancel()
	if orch != nil {
		orch.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := jobSvc.Shutdown(shutdownCtx); err != nil {
		log.Printf("Job service shutdown error: %v", err)
	}
	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("REST API server shutdown error: %v", err)
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("WebSocket server shutdown error: %v", err)
	}

	log.Printf("%s stopped", serviceName)
}

// connectRedis retries so the daemon tolerates Redis starting after it in
// compose environments.
func connectRedis(url string) (*cache.RedisCache, error) {
	const maxRetries = 30
	const retryDelay = 2 * time.Second

	var redisCache *cache.RedisCache
	var err error
	for i := 0; i < maxRetries; i++ {
		redisCache, err = cache.NewRedisCache(url)
		if err == nil {
			return redisCache, nil
		}
		if i < maxRetries-1 {
			log.Printf("Redis connection attempt %d/%d failed: %v (retrying in %v)", i+1, maxRetries, err, retryDelay)
			time.Sleep(retryDelay)
		}
	}
	return nil, err
}
