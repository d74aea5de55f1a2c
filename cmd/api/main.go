package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	appanalytics "github.com/jhoicas/Estoque-api/internal/application/analytics"
	"github.com/jhoicas/Estoque-api/internal/application/auth"
	"github.com/jhoicas/Estoque-api/internal/application/catalog"
	"github.com/jhoicas/Estoque-api/internal/application/ledger"
	"github.com/jhoicas/Estoque-api/internal/application/report"
	"github.com/jhoicas/Estoque-api/internal/application/usecase"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/csvimport"
	infrapdf "github.com/jhoicas/Estoque-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/postgres"
	infraxlsx "github.com/jhoicas/Estoque-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/Estoque-api/internal/interfaces/http"
	"github.com/jhoicas/Estoque-api/pkg/config"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("version", cfg.App.Version).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
		log.Info().Msg("esquema aplicado")
	}

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	sectorRepo := mustNamed(log, pool, entity.KindSector)
	supplierRepo := mustNamed(log, pool, entity.KindSupplier)
	natureRepo := mustNamed(log, pool, entity.KindNature)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	userUC := usecase.NewUserUseCase(userRepo, log)
	productUC := catalog.NewProductUseCase(txRunner, productRepo, sectorRepo, supplierRepo, natureRepo, log)
	importUC := catalog.NewImportUseCase(txRunner, log)
	ledgerUC := ledger.NewUseCase(txRunner, productRepo, movementRepo, log)
	dashboardUC := appanalytics.NewDashboardUseCase(productRepo, supplierRepo, analyticsRepo)

	// PDF con maroto (inventario y etiquetas Code128); XLSX con excelize
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	excelRenderer := infraxlsx.NewExcelRenderer()
	reportUC := report.NewUseCase(productRepo, movementRepo, ledgerUC, report.Renderers{
		InventoryPDF:  pdfGenerator,
		InventoryXLSX: excelRenderer,
		MovementsXLSX: excelRenderer,
		Labels:        pdfGenerator,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    csvimport.MaxSize + 1<<20, // CSV + overhead multipart
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: cfg.HTTP.CORSOrigins != "*",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Estoque API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger no disponible")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		ProductUC:   productUC,
		ImportUC:    importUC,
		SectorUC:    catalog.NewNamedEntityUseCase(sectorRepo, log),
		SupplierUC:  catalog.NewNamedEntityUseCase(supplierRepo, log),
		NatureUC:    catalog.NewNamedEntityUseCase(natureRepo, log),
		LedgerUC:    ledgerUC,
		ReportUC:    reportUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
		AppName:     cfg.App.Name,
		Version:     cfg.App.Version,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func mustNamed(log *logger.Logger, q postgres.Querier, kind entity.NamedKind) *postgres.NamedEntityRepo {
	repo, err := postgres.NewNamedEntityRepository(q, kind)
	if err != nil {
		log.Fatal().Err(err).Str("kind", string(kind)).Msg("repositorio de catálogo")
	}
	return repo
}
