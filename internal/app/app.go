package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/bet-tracker/external/betprovider"
	"github.com/riskibarqy/bet-tracker/internal/config"
	"github.com/riskibarqy/bet-tracker/internal/domain/bet"
	"github.com/riskibarqy/bet-tracker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/bet-tracker/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/bet-tracker/internal/interfaces/httpapi"
	"github.com/riskibarqy/bet-tracker/internal/platform/cache"
	idgen "github.com/riskibarqy/bet-tracker/internal/platform/id"
	"github.com/riskibarqy/bet-tracker/internal/platform/logging"
	"github.com/riskibarqy/bet-tracker/internal/platform/resilience"
	"github.com/riskibarqy/bet-tracker/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	betRepo, err := newBetRepository(cfg, logger)
	if err != nil {
		return nil, err
	}

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}
	invalidator := invalidatorOrNil(cacheStore)

	providerClient := newProviderClient(cfg)

	betSvc := usecase.NewBetService(betRepo, idgen.NewRandomGenerator(), invalidator, logger)
	statsSvc := usecase.NewStatsService(betRepo, statsProviderOrNil(providerClient), cacheStore, cfg.StatsAllTimeStart, logger)
	importSvc := usecase.NewImportService(betRepo, invalidator, cfg.ImportMaxWorkers, logger)
	syncSvc := usecase.NewSyncService(betRepo, betProviderOrNil(providerClient), invalidator, logger)

	handler := httpapi.NewHandler(betSvc, statsSvc, importSvc, syncSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// newBetRepository picks storage by configuration: postgres when DB_URL is
// set, otherwise a seeded in-memory store for local development.
func newBetRepository(cfg config.Config, logger *slog.Logger) (bet.Repository, error) {
	if cfg.DBURL == "" {
		logger.Info("using in-memory bet repository", "reason", "DB_URL empty")
		return memory.NewBetRepository(memory.SeedBets()), nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	logger.Info("using postgres bet repository", "db_name", dbNameFromURL(cfg.DBURL))
	return postgres.NewBetRepository(db), nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	opts := []otelsql.Option{
		otelsql.WithAttributes(semconv.DBSystemNamePostgreSQL),
		otelsql.WithQueryFormatter(func(query string) string {
			return formatDBQueryForTrace(query)
		}),
	}
	if name := dbNameFromURL(cfg.DBURL); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Connect("postgres", dbURL, opts...)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func newProviderClient(cfg config.Config) *betprovider.Client {
	if !cfg.ProviderEnabled {
		return nil
	}

	return betprovider.NewClient(betprovider.ClientConfig{
		BaseURL:    cfg.ProviderBaseURL,
		Token:      cfg.ProviderToken,
		Timeout:    cfg.ProviderTimeout,
		MaxRetries: cfg.ProviderMaxRetries,
		Logger:     logging.Default(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ProviderCircuitEnabled,
			FailureThreshold: cfg.ProviderCircuitFailureCount,
			OpenTimeout:      cfg.ProviderCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ProviderCircuitHalfOpenMaxReq,
		},
	})
}

// A typed nil pointer stored in a non-nil interface would defeat the
// services' nil checks, so the conversions stay explicit.
func invalidatorOrNil(store *cache.Store) usecase.StatsInvalidator {
	if store == nil {
		return nil
	}
	return store
}

func statsProviderOrNil(client *betprovider.Client) usecase.StatsProvider {
	if client == nil {
		return nil
	}
	return client
}

func betProviderOrNil(client *betprovider.Client) usecase.BetProvider {
	if client == nil {
		return nil
	}
	return client
}
