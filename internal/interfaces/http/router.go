package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/Estoque-api/internal/application/analytics"
	"github.com/jhoicas/Estoque-api/internal/application/auth"
	"github.com/jhoicas/Estoque-api/internal/application/catalog"
	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/ledger"
	"github.com/jhoicas/Estoque-api/internal/application/report"
	"github.com/jhoicas/Estoque-api/internal/application/usecase"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	ProductUC   *catalog.ProductUseCase
	ImportUC    *catalog.ImportUseCase
	SectorUC    *catalog.NamedEntityUseCase
	SupplierUC  *catalog.NamedEntityUseCase
	NatureUC    *catalog.NamedEntityUseCase
	LedgerUC    *ledger.UseCase
	ReportUC    *report.UseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
	AppName     string
	Version     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Públicas
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/login", authHandler.Login)
	api.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(dto.VersionResponse{App: deps.AppName, Version: deps.Version})
	})

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products
	productHandler := NewProductHandler(deps.ProductUC, deps.ImportUC, deps.ReportUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Post("/import", productHandler.Import)
	products.Post("/labels", productHandler.Labels)
	products.Get("/code/:code", productHandler.GetByCode)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	protected.Get("/forms/product-data", productHandler.FormData)

	// Sectores, proveedores y naturalezas comparten handler
	for path, uc := range map[string]*catalog.NamedEntityUseCase{
		"/sectors":   deps.SectorUC,
		"/suppliers": deps.SupplierUC,
		"/natures":   deps.NatureUC,
	} {
		h := NewNamedEntityHandler(uc)
		g := protected.Group(path)
		g.Get("/", h.List)
		g.Post("/", h.Create)
		g.Get("/:id", h.GetByID)
		g.Put("/:id", h.Update)
		g.Delete("/:id", h.Delete)
	}

	// Stock
	stockHandler := NewStockHandler(deps.LedgerUC)
	stock := protected.Group("/stock")
	stock.Post("/entry", stockHandler.Entry)
	stock.Post("/exit", stockHandler.Exit)
	stock.Get("/balances", stockHandler.Balances)
	stock.Get("/balance/:product_id", stockHandler.Balance)
	protected.Get("/movements", stockHandler.Movements)

	// Users: /me para cualquier usuario; el resto solo Administrador
	userHandler := NewUserHandler(deps.UserUC)
	adminOnly := RequireRole(entity.RoleAdmin)
	users := protected.Group("/users")
	users.Get("/me", authHandler.Me)
	users.Post("/me/password", authHandler.ChangePassword)
	users.Get("/", adminOnly, userHandler.List)
	users.Post("/", adminOnly, userHandler.Create)
	users.Get("/:id", adminOnly, userHandler.GetByID)
	users.Put("/:id", adminOnly, userHandler.Update)
	users.Delete("/:id", adminOnly, userHandler.Toggle)

	// Dashboard y reportes
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/kpis", dashboardHandler.GetKPIs)

	reportHandler := NewReportHandler(deps.ReportUC)
	reports := protected.Group("/reports")
	reports.Get("/inventory", reportHandler.Inventory)
	reports.Get("/movements", reportHandler.Movements)
}
