package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docmarket/docs"
	"docmarket/internal/auth"
	"docmarket/internal/config"
	"docmarket/internal/database"
	"docmarket/internal/database/migration"
	handlers "docmarket/internal/http/handler"
	"docmarket/internal/http/middleware"
	"docmarket/internal/logger"
	"docmarket/internal/metrics"
	"docmarket/internal/notify"
	"docmarket/internal/otel"
	"docmarket/internal/repository"
	"docmarket/internal/repository/memory"
	"docmarket/internal/repository/postgres"
	"docmarket/internal/service"
	"docmarket/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// repositories is the persistence wiring chosen by STORE_DRIVER.
type repositories struct {
	pinger       repository.Pinger
	tx           repository.TransactionManager
	documents    repository.DocumentRepository
	entitlements repository.EntitlementRepository
	claims       repository.ClaimRepository
	roles        repository.RoleRepository
	close        func() error
}

// @title Document Marketplace API
// @version 1.0
// @description Catalog, payment claims, reconciliation and gated document access.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	log := logger.Default(cfg.Location())
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server_exit", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer repos.close()

	blobs, err := openStorage(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	publisher, err := openPublisher(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	verifier, err := auth.NewGoogleVerifier(ctx, cfg.Auth.GoogleJWKSURL, cfg.Auth.GoogleClientID, log)
	if err != nil {
		return fmt.Errorf("identity verifier: %w", err)
	}
	sessions, err := auth.NewSessionIssuer(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL, cfg.Auth.Issuer)
	if err != nil {
		return fmt.Errorf("session issuer: %w", err)
	}

	authSvc := service.NewAuthService(verifier, sessions, repos.roles, log)
	if err := authSvc.SeedAdmins(ctx, cfg.Auth.AdminEmails); err != nil {
		return fmt.Errorf("seed admins: %w", err)
	}

	catalog := service.NewCatalogService(blobs, repos.documents, cfg.MinIO.URLTTL, log)
	ledger := service.NewEntitlementLedger(repos.entitlements, repos.documents, rec, log)
	queue := service.NewClaimQueue(repos.claims, repos.documents, ledger, publisher, rec, log)
	reconciler := service.NewReconciler(repos.tx, repos.claims, ledger, publisher, rec, log)
	gate := service.NewAccessGate(repos.documents, ledger, rec)

	app := fiber.New(fiber.Config{
		AppName:      "docmarket",
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    64 << 20,
	})

	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/healthz"
	})))
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(httpMetrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}
		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}
		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(app, handlers.Services{
		Store:      repos.pinger,
		Auth:       authSvc,
		Catalog:    catalog,
		Ledger:     ledger,
		Queue:      queue,
		Reconciler: reconciler,
		Gate:       gate,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("server_started", "addr", ":"+cfg.Port, "store_driver", cfg.StoreDriver)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("server_stopping")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.ShutdownWithContext(sctx)
}

func openRepositories(ctx context.Context, cfg *config.AppConfig, log *slog.Logger) (*repositories, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		log.Warn("using in-memory store; data is lost on restart")
		st := memory.NewStore()
		return &repositories{
			pinger:       st,
			tx:           st,
			documents:    st.Documents(),
			entitlements: st.Entitlements(),
			claims:       st.Claims(),
			roles:        st.Roles(),
			close:        func() error { return nil },
		}, nil
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration: %w", err)
		}
		return postgresRepositories(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func postgresRepositories(db *sql.DB) *repositories {
	return &repositories{
		pinger:       db,
		tx:           postgres.NewTransactionManager(db),
		documents:    postgres.NewDocumentPostgres(db),
		entitlements: postgres.NewEntitlementPostgres(db),
		claims:       postgres.NewClaimPostgres(db),
		roles:        postgres.NewRolePostgres(db),
		close:        db.Close,
	}
}

func openStorage(cfg *config.AppConfig, log *slog.Logger) (storage.Storage, error) {
	if cfg.MinIO.Endpoint == "" {
		if cfg.StoreDriver != config.StoreDriverMemory {
			return nil, errors.New("MINIO_ENDPOINT is required with the postgres driver")
		}
		log.Warn("MINIO_ENDPOINT not set; keeping document blobs in memory")
		return storage.NewMemory(), nil
	}
	return storage.NewMinIO(cfg.MinIO)
}

func openPublisher(ctx context.Context, cfg *config.AppConfig, log *slog.Logger) (notify.Publisher, error) {
	if cfg.Notify.SQSQueueURL == "" {
		log.Info("claim events disabled; NOTIFY_SQS_QUEUE_URL not set")
		return notify.Noop{}, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return notify.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.Notify.SQSQueueURL), nil
}
