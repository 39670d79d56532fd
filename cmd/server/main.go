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
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	dashboardapp "github.com/openbiz/backend/internal/application/dashboard"
	"github.com/openbiz/backend/internal/application/docmerge"
	identityapp "github.com/openbiz/backend/internal/application/identity"
	procurementapp "github.com/openbiz/backend/internal/application/procurement"
	uidocapp "github.com/openbiz/backend/internal/application/uidoc"
	"github.com/openbiz/backend/internal/infrastructure/auth"
	"github.com/openbiz/backend/internal/infrastructure/cache"
	"github.com/openbiz/backend/internal/infrastructure/config"
	"github.com/openbiz/backend/internal/infrastructure/event"
	"github.com/openbiz/backend/internal/infrastructure/i18n"
	"github.com/openbiz/backend/internal/infrastructure/logger"
	"github.com/openbiz/backend/internal/infrastructure/persistence"
	"github.com/openbiz/backend/internal/infrastructure/printing"
	"github.com/openbiz/backend/internal/infrastructure/storage"
	"github.com/openbiz/backend/internal/infrastructure/telemetry"
	"github.com/openbiz/backend/internal/interfaces/http/handler"
	"github.com/openbiz/backend/internal/interfaces/http/middleware"
	"github.com/openbiz/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.GormLevel), 200*time.Millisecond)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if db.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to create sqlite schema", zap.Error(err))
		}
	}
	if providers.IsEnabled() {
		if err := telemetry.InstrumentGorm(db.DB, cfg.Database.DBName, false, log); err != nil {
			log.Warn("Database tracing disabled", zap.Error(err))
		}
	}
	log.Info("Database connected", zap.String("driver", db.Driver))

	cacheStore := cache.NewStore(ctx, cfg.Redis, log)
	defer func() {
		_ = cacheStore.Close()
	}()

	fileStore, err := storage.New(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize document storage", zap.Error(err))
	}

	translator, err := i18n.New(cfg.App.DefaultLanguage)
	if err != nil {
		log.Fatal("Failed to load translations", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	proposalRepo := persistence.NewGormSupplierProposalRepository(db.DB)
	boxRepo := persistence.NewGormBoxRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)

	// Domain events are audited; subscribers run synchronously
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	// PDF generation
	paper, err := printing.PaperFromConfig(cfg.Documents)
	if err != nil {
		log.Fatal("Invalid paper format", zap.Error(err))
	}
	templates, err := printing.NewTemplateEngine(translator)
	if err != nil {
		log.Fatal("Failed to load document templates", zap.Error(err))
	}
	renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		DefaultTimeout: cfg.Documents.RenderTimeout,
		ExecPath:       cfg.Documents.ChromePath,
		NoSandbox:      os.Geteuid() == 0,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() {
		_ = renderer.Close()
	}()
	generator := printing.NewGenerator(templates, renderer, fileStore, paper, log,
		printing.WithDefaultModel(cfg.Documents.DefaultModel))
	documentMetrics, err := telemetry.NewDocumentMetrics(providers.Meter("openbiz/documents"))
	if err != nil {
		log.Fatal("Failed to create document metrics", zap.Error(err))
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	proposalService := procurementapp.NewSupplierProposalService(proposalRepo, log)
	proposalService.SetEventPublisher(eventBus)
	boxService := dashboardapp.NewBoxService(boxRepo, cacheStore, cfg.Redis.CacheTTL, translator, log)
	mergeService := docmerge.NewService(docmerge.Config{
		Documents:       documentRepo,
		Generator:       generator,
		Merger:          printing.NewMerger(),
		Store:           fileStore,
		Languages:       translator,
		Paper:           paper,
		DefaultLanguage: cfg.App.DefaultLanguage,
		Metrics:         documentMetrics,
		Logger:          log,
	})
	iconsService, err := uidocapp.NewIconsService(cfg.UIDoc.DocumentRoot, cacheStore, cfg.UIDoc.CacheTTL, translator, log)
	if err != nil {
		log.Fatal("Failed to initialize icon documentation", zap.Error(err))
	}

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	httpMetrics, err := middleware.HTTPMetrics(providers.Meter("openbiz/http"))
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, otelgin.WithFilter(func(r *http.Request) bool {
		return r.URL.Path != "/health"
	})))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(httpMetrics)
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.HTTP.AllowOrigins)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodyBytes))

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, db)
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(
		middleware.JWTAuth(middleware.JWTConfig{
			Validator: jwtService,
			SkipPaths: r.PublicURLs(),
			Logger:    log,
		}),
		middleware.Language(translator),
		middleware.SpanEnricher(),
	)
	r.Register(router.APIGroups(router.Handlers{
		Auth:             handler.NewAuthHandler(authService),
		SupplierProposal: handler.NewSupplierProposalHandler(proposalService),
		Box:              handler.NewBoxHandler(boxService),
		Document:         handler.NewDocumentHandler(mergeService, fileStore),
		UIDoc:            handler.NewUIDocHandler(iconsService),
		System:           systemHandler,
	})...)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}
