package app

import (
	"fmt"
	"net/http"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/thudson/golf-scorecard/internal/config"
	"github.com/thudson/golf-scorecard/internal/domain/course"
	"github.com/thudson/golf-scorecard/internal/domain/round"
	"github.com/thudson/golf-scorecard/internal/domain/user"
	cacherepo "github.com/thudson/golf-scorecard/internal/infrastructure/repository/cache"
	"github.com/thudson/golf-scorecard/internal/infrastructure/repository/memory"
	"github.com/thudson/golf-scorecard/internal/infrastructure/repository/postgres"
	"github.com/thudson/golf-scorecard/internal/interfaces/httpapi"
	basecache "github.com/thudson/golf-scorecard/internal/platform/cache"
	idgen "github.com/thudson/golf-scorecard/internal/platform/id"
	"github.com/thudson/golf-scorecard/internal/platform/logging"
	"github.com/thudson/golf-scorecard/internal/platform/token"
	"github.com/thudson/golf-scorecard/internal/usecase"
)

// NewHTTPServer wires repositories, services, and the HTTP router into a
// ready-to-run server. The returned cleanup closes the backing store.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	userRepo, courseRepo, roundRepo, closeStore, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	courseRepo = cacherepo.NewCourseRepository(courseRepo, basecache.NewStore(cfg.CourseCacheTTL))

	tokens, err := token.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}

	ids := idgen.NewRandomGenerator()

	authService := usecase.NewAuthService(userRepo, tokens, ids, cfg.BcryptCost, logger)
	userService := usecase.NewUserService(userRepo, cfg.BcryptCost)
	courseService := usecase.NewCourseService(courseRepo, ids)
	roundService := usecase.NewRoundService(roundRepo, courseRepo, userRepo, ids, logger)
	statsService := usecase.NewStatsService(roundRepo)
	importService := usecase.NewImportService(roundService, cfg.ImportWorkers, logger)

	handler := httpapi.NewHandler(
		authService,
		userService,
		courseService,
		roundService,
		statsService,
		importService,
		logger,
	)
	router := httpapi.NewRouter(handler, tokens, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = closeStore()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, closeStore, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (user.Repository, course.Repository, round.Repository, func() error, error) {
	if cfg.DBURL == "" {
		logger.Info("storage backend selected", "backend", "memory")
		courseRepo := memory.NewCourseRepository()
		roundRepo := memory.NewRoundRepository(courseRepo)
		userRepo := memory.NewUserRepository(courseRepo, roundRepo)
		return userRepo, courseRepo, roundRepo, func() error { return nil }, nil
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, nil, nil, crerr.Wrap(err, "connect postgres")
	}

	logger.Info("storage backend selected", "backend", "postgres")
	return postgres.NewUserRepository(db), postgres.NewCourseRepository(db), postgres.NewRoundRepository(db), db.Close, nil
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Connect("postgres", cfg.DBURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
