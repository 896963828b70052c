// cmd/worker-manager/main.go
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"insurance-workers/internal/catalog"
	"insurance-workers/internal/common/camunda"
	"insurance-workers/internal/common/config"
	"insurance-workers/internal/common/database"
	"insurance-workers/internal/common/errors"
	"insurance-workers/internal/common/logger"
	"insurance-workers/internal/common/metrics"
	"insurance-workers/internal/common/observability"
	"insurance-workers/internal/common/validation"
	"insurance-workers/internal/models"
	"insurance-workers/internal/notification"
	"insurance-workers/internal/search"
	"insurance-workers/internal/session"
	"insurance-workers/pkg/registry"

	ca "insurance-workers/internal/workers/insurance/company-analysis"
	cp "insurance-workers/internal/workers/insurance/compare-policies"
	ms "insurance-workers/internal/workers/insurance/manage-session"
	pfc "insurance-workers/internal/workers/insurance/parse-filter-criteria"
	rp "insurance-workers/internal/workers/insurance/recommend-policies"
	sp "insurance-workers/internal/workers/insurance/search-policies"
	sr "insurance-workers/internal/workers/insurance/send-recommendations"
)

// connections holds every backend the workers may use. Disabled backends stay nil.
type connections struct {
	zeebe *camunda.Client
	pg    *database.PostgresClient
	redis *database.RedisClient
	es    *database.ElasticsearchClient
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrap := logger.New("info", "console")
		bootstrap.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("starting worker manager", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"catalog":     cfg.Catalog.Source,
	})

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		log.Warn("otel metrics disabled", map[string]interface{}{"error": err.Error()})
	}
	metrics.ObserveJobs(func(taskType, status string, d time.Duration) {
		obs.RecordJob(context.Background(), taskType, status, d)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conns, err := connect(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("backend connection failed", zap.Error(err))
	}
	defer conns.close(log)

	repo, err := buildCatalog(cfg, conns, log)
	if err != nil {
		zapLog.Fatal("catalog setup failed", zap.Error(err))
	}

	reg, err := loadRegistry(cfg)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	validator, err := validation.NewSchemaValidator(reg)
	if err != nil {
		zapLog.Fatal("activity schemas invalid", zap.Error(err))
	}

	jobWorkers := registerWorkers(ctx, cfg, conns, repo, validator, log)
	log.Info("workers registered", map[string]interface{}{"count": len(jobWorkers)})

	server := startHealthServer(cfg, conns, log)

	<-ctx.Done()
	log.Info("shutdown signal received, stopping workers", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range jobWorkers {
		w.Close()
		w.AwaitClose()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("health server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Error("otel shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	log.Info("worker manager stopped gracefully", nil)
}

// connect dials every enabled backend concurrently, each with its own backoff.
func connect(ctx context.Context, cfg *config.Config, log logger.Logger) (*connections, error) {
	conns := &connections{}
	retry := &camunda.RetryConfig{MaxRetries: 15, BaseDelay: 2 * time.Second, MaxDelay: 30 * time.Second}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		client, err := camunda.NewClientWithConfig(gctx, &camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: cfg.Camunda.UsePlaintext,
			ConnectionTimeout:      10 * time.Second,
			RetryConfig:            camunda.DefaultRetryConfig,
		}, log)
		if err != nil {
			return err
		}
		conns.zeebe = client
		log.Info("Zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})
		return nil
	})

	if cfg.Database.Postgres.Enabled {
		g.Go(func() error {
			pg, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			if err := camunda.RetryWithBackoff(gctx, retry, log, "PostgreSQL connection", pg.Ping); err != nil {
				pg.Close()
				return err
			}
			conns.pg = pg
			log.Info("PostgreSQL connected", nil)
			return nil
		})
	}

	if cfg.Database.Redis.Enabled {
		g.Go(func() error {
			rc := database.NewRedis(cfg.Database.Redis)
			if err := camunda.RetryWithBackoff(gctx, retry, log, "Redis connection", rc.Ping); err != nil {
				rc.Close()
				return err
			}
			conns.redis = rc
			log.Info("Redis connected", nil)
			return nil
		})
	}

	if cfg.Database.Elasticsearch.Enabled {
		g.Go(func() error {
			es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			if err := camunda.RetryWithBackoff(gctx, retry, log, "Elasticsearch connection", es.Ping); err != nil {
				return err
			}
			conns.es = es
			log.Info("Elasticsearch connected", nil)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		conns.close(log)
		return nil, err
	}
	return conns, nil
}

func (c *connections) close(log logger.Logger) {
	if c.zeebe != nil {
		if err := c.zeebe.Close(); err != nil {
			log.Error("error closing Zeebe client", map[string]interface{}{"error": err.Error()})
		}
	}
	if c.pg != nil {
		c.pg.Close()
	}
	if c.redis != nil {
		c.redis.Close()
	}
}

func buildCatalog(cfg *config.Config, conns *connections, log logger.Logger) (catalog.Repository, error) {
	var repo catalog.Repository
	switch cfg.Catalog.Source {
	case "postgres":
		repo = catalog.NewPostgresRepository(conns.pg.DB)
	default:
		seed, err := catalog.NewSeedRepository()
		if err != nil {
			return nil, err
		}
		repo = seed
	}

	if conns.redis != nil && cfg.Catalog.CacheTTL > 0 {
		log.Info("catalog cache enabled", map[string]interface{}{"ttl": cfg.Catalog.CacheDuration().String()})
		return catalog.NewCachedRepository(repo, conns.redis.Client, cfg.Catalog.CacheDuration(), log), nil
	}
	return repo, nil
}

func loadRegistry(cfg *config.Config) (*registry.ActivityRegistry, error) {
	if cfg.Registry.Path != "" {
		return registry.LoadRegistry(cfg.Registry.Path)
	}
	return registry.Load()
}

func registerWorkers(
	ctx context.Context,
	cfg *config.Config,
	conns *connections,
	repo catalog.Repository,
	validator *validation.SchemaValidator,
	log logger.Logger,
) []worker.JobWorker {
	var started []worker.JobWorker
	errHandler := errors.NewErrorHandler(log)

	register := func(taskType string, handler camunda.JobHandler) {
		wcfg := config.GetWorkerConfig(cfg, taskType)
		h := camunda.WithValidation(taskType, validator, errHandler, handler)
		if w := camunda.StartWorker(conns.zeebe.GetClient(), taskType, wcfg, h, log); w != nil {
			started = append(started, w)
		}
	}
	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	// --- Recommendation ---
	register(pfc.TaskType, pfc.NewHandler(&pfc.Config{
		Timeout:     timeout(pfc.TaskType),
		BudgetSlack: cfg.Recommendation.Slack(),
	}, log).Handle)

	register(rp.TaskType, rp.NewHandler(&rp.Config{
		Timeout:     timeout(rp.TaskType),
		MaxResults:  cfg.Recommendation.MaxResults,
		BudgetSlack: cfg.Recommendation.Slack(),
	}, repo, log).Handle)

	// --- Comparison & browsing ---
	register(cp.TaskType, cp.NewHandler(&cp.Config{
		Timeout: timeout(cp.TaskType),
	}, repo, log).Handle)

	register(ca.TaskType, ca.NewHandler(&ca.Config{
		Timeout: timeout(ca.TaskType),
	}, repo, log).Handle)

	if conns.es != nil {
		searchClient := search.NewClient(conns.es.Client, cfg.Search.Index, cfg.Search.DefaultPageSize)
		indexCatalog(ctx, repo, searchClient, log)

		register(sp.TaskType, sp.NewHandler(&sp.Config{
			Timeout: timeout(sp.TaskType),
			Index:   cfg.Search.Index,
		}, searchClient, log).Handle)
	} else {
		log.Warn("worker skipped: elasticsearch disabled", map[string]interface{}{"taskType": sp.TaskType})
	}

	// --- Session ---
	if conns.redis != nil {
		sessions := session.NewRedisRepository(conns.redis.Client, cfg.Session.Duration())
		register(ms.TaskType, ms.NewHandler(&ms.Config{
			Timeout: timeout(ms.TaskType),
		}, sessions, log).Handle)
	} else {
		log.Warn("worker skipped: redis disabled", map[string]interface{}{"taskType": ms.TaskType})
	}

	// --- Notification ---
	register(sr.TaskType, sr.NewHandler(&sr.Config{
		Timeout: timeout(sr.TaskType),
	}, buildSender(ctx, cfg, log), log).Handle)

	return started
}

// indexCatalog pushes the catalog into the search index. Failures are logged and
// the search worker starts anyway.
func indexCatalog(ctx context.Context, repo catalog.Repository, client *search.Client, log logger.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := client.EnsureIndex(ctx)
	var policies []models.PolicyRecord
	if err == nil {
		policies, err = repo.ListPolicies(ctx)
	}
	if err == nil {
		err = client.IndexPolicies(ctx, policies)
	}
	if err != nil {
		log.Warn("policy index refresh failed", map[string]interface{}{"error": err.Error()})
		return
	}
	log.Info("policy index refreshed", map[string]interface{}{"policies": len(policies)})
}

func buildSender(ctx context.Context, cfg *config.Config, log logger.Logger) *notification.Sender {
	ncfg := cfg.Notifications
	senderCfg := notification.Config{
		EmailEnabled: ncfg.Email.Enabled,
		FromEmail:    ncfg.Email.FromEmail,
		SMSEnabled:   ncfg.SMS.Enabled,
		SMSSenderID:  ncfg.SMS.SenderID,
	}

	var (
		sesAPI notification.SESAPI
		snsAPI notification.SNSAPI
	)
	if ncfg.Email.Enabled || ncfg.SMS.Enabled {
		sesClient, snsClient, err := notification.NewAWSClients(ctx, ncfg.Region)
		if err != nil {
			log.Error("AWS config load failed, notifications disabled", map[string]interface{}{"error": err.Error()})
		} else {
			sesAPI, snsAPI = sesClient, snsClient
		}
	}
	return notification.NewSender(senderCfg, sesAPI, snsAPI)
}

func startHealthServer(cfg *config.Config, conns *connections, log logger.Logger) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := conns.check(ctx)
		status, code := "ready", http.StatusOK
		for _, v := range checks {
			if v != "ok" {
				status, code = "not ready", http.StatusServiceUnavailable
				break
			}
		}
		writeStatus(w, code, map[string]interface{}{
			"status": status,
			"checks": checks,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()
	return server
}

// check pings every connected backend.
func (c *connections) check(ctx context.Context) map[string]string {
	results := map[string]string{}
	record := func(name string, err error) {
		if err != nil {
			results[name] = err.Error()
			return
		}
		results[name] = "ok"
	}

	record("zeebe", c.zeebe.HealthCheck(ctx))
	if c.pg != nil {
		record("postgres", c.pg.Ping(ctx))
	}
	if c.redis != nil {
		record("redis", c.redis.Ping(ctx))
	}
	if c.es != nil {
		record("elasticsearch", c.es.Ping(ctx))
	}
	return results
}

func writeStatus(w http.ResponseWriter, code int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
