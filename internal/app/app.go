package app

import (
	"context"
	"fmt"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/ringsidehq/matchfinder/internal/config"
	"github.com/ringsidehq/matchfinder/internal/domain/boxer"
	"github.com/ringsidehq/matchfinder/internal/domain/club"
	"github.com/ringsidehq/matchfinder/internal/domain/ratelimit"
	"github.com/ringsidehq/matchfinder/internal/infrastructure/account/clubauth"
	"github.com/ringsidehq/matchfinder/internal/infrastructure/ai/gemini"
	"github.com/ringsidehq/matchfinder/internal/infrastructure/repository/memory"
	"github.com/ringsidehq/matchfinder/internal/infrastructure/repository/postgres"
	"github.com/ringsidehq/matchfinder/internal/interfaces/httpapi"
	"github.com/ringsidehq/matchfinder/internal/platform/logging"
	"github.com/ringsidehq/matchfinder/internal/platform/resilience"
	"github.com/ringsidehq/matchfinder/internal/usecase"
)

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	boxerRepo, clubRepo, limitStore, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	limiter := usecase.NewRateLimiter(limitStore, cfg.FindMatchPerMinute, cfg.ModelCallPerMinute, logger)

	var generator usecase.TextGenerator
	if cfg.GeminiEnabled {
		gen, err := gemini.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, resilience.CircuitBreakerConfig{
			Enabled:          cfg.GeminiCircuitEnabled,
			FailureThreshold: cfg.GeminiCircuitFailureCount,
			OpenTimeout:      cfg.GeminiCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.GeminiCircuitHalfOpenMaxReq,
		})
		if err != nil {
			return nil, fmt.Errorf("build gemini generator: %w", err)
		}
		generator = gen
		logger.Info("model assistance enabled", "model", gen.Model())
	} else {
		logger.Info("model assistance disabled", "reason", "no GEMINI_API_KEY")
	}

	parser := usecase.NewAssistedIntentParser(
		generator,
		usecase.NewIntentParser(boxerRepo),
		limiter,
		cfg.GeminiTimeout,
		logger,
	)
	explainer := usecase.NewExplanationGenerator(generator, limiter, cfg.GeminiTimeout, logger)

	matchService := usecase.NewMatchService(boxerRepo, clubRepo, parser, limiter, explainer, logger)
	boxerService := usecase.NewBoxerService(boxerRepo, clubRepo)

	authClient := clubauth.NewClient(
		&http.Client{Timeout: cfg.AuthTimeout},
		cfg.AuthBaseURL,
		cfg.AuthIntrospectPath,
		cfg.AuthCacheTTL,
		logger,
	)

	handler := httpapi.NewHandler(matchService, boxerService, logger)
	router := httpapi.NewRouter(handler, authClient, logger, cfg.CORSAllowedOrigins)

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

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (boxer.Repository, club.Repository, ratelimit.Store, error) {
	if cfg.DBURL == "" {
		logger.Info("using seeded in-memory repositories", "reason", "DB_URL empty")
		return memory.NewBoxerRepository(memory.SeedBoxers()),
			memory.NewClubRepository(memory.SeedClubs()),
			memory.NewRateLimitStore(),
			nil
	}

	db, err := otelsqlx.ConnectContext(ctx, "postgres",
		normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect database: %w", err)
	}

	logger.Info("using postgres repositories", "db_name", dbNameFromURL(cfg.DBURL))
	return postgres.NewBoxerRepository(db),
		postgres.NewClubRepository(db),
		postgres.NewRateLimitStore(db),
		nil
}
