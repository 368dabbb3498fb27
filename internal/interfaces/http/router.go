package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-pro/internal/application/auth"
	"github.com/tu-usuario/almacen-pro/internal/application/ledger"
	"github.com/tu-usuario/almacen-pro/internal/application/reconcile"
	"github.com/tu-usuario/almacen-pro/internal/application/sales"
	"github.com/tu-usuario/almacen-pro/internal/application/usecase"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductoUC  *usecase.ProductoUseCase
	StockUC     *usecase.StockUseCase
	Executor    *ledger.Executor
	SalesUC     *sales.UseCase
	ReconcileUC *reconcile.UseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo de productos (protegido; escrituras solo admin/bodeguero)
	productos := protected.Group("/productos")
	productoHandler := NewProductoHandler(deps.ProductoUC)
	productos.Get("/", productoHandler.List)
	productos.Get("/:id", productoHandler.GetByID)
	productos.Post("/", RequireRole(entity.RolAdmin, entity.RolBodeguero), productoHandler.Create)
	productos.Put("/:id", RequireRole(entity.RolAdmin, entity.RolBodeguero), productoHandler.Update)
	productos.Delete("/:id", RequireRole(entity.RolAdmin), productoHandler.Delete)

	// Stock y correcciones (protegido)
	stockHandler := NewStockHandler(deps.StockUC, deps.Executor)
	stock := protected.Group("/stock")
	stock.Post("/correccion", RequireRole(entity.RolAdmin, entity.RolBodeguero), stockHandler.Corregir)
	stock.Get("/:ubicacion", stockHandler.Listar)

	// Movimientos: asientos y historial (protegido)
	movimientos := protected.Group("/movimientos")
	movimientoHandler := NewMovimientoHandler(deps.Executor)
	movimientos.Post("/", RequireRole(entity.RolAdmin, entity.RolBodeguero), movimientoHandler.Registrar)
	movimientos.Get("/producto/:id", stockHandler.HistorialProducto)
	movimientos.Get("/ubicacion/:ubicacion", stockHandler.HistorialUbicacion)

	// Transferencias entre vendedores (protegido)
	protected.Post("/transferencias", RequireRole(entity.RolAdmin, entity.RolBodeguero), movimientoHandler.Transferir)

	// Ventas (protegido; el alcance por vendedor se aplica en el handler)
	ventas := protected.Group("/ventas")
	ventaHandler := NewVentaHandler(deps.SalesUC)
	ventas.Post("/", ventaHandler.Crear)
	ventas.Get("/", ventaHandler.Listar)
	ventas.Get("/:id", ventaHandler.GetByID)
	ventas.Put("/:id", ventaHandler.Editar)
	ventas.Delete("/:id", ventaHandler.Revertir)

	// Mermas (protegido)
	mermas := protected.Group("/mermas")
	mermaHandler := NewMermaHandler(deps.SalesUC)
	mermas.Post("/", mermaHandler.Crear)
	mermas.Get("/", mermaHandler.Listar)
	mermas.Delete("/:id", RequireRole(entity.RolAdmin, entity.RolBodeguero), mermaHandler.Eliminar)

	// Conciliación de libros (protegido)
	reconcileHandler := NewReconcileHandler(deps.ReconcileUC)
	protected.Get("/reconciliacion/:vendedorId", reconcileHandler.Reconciliar)
}
