package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/taller-pro/internal/application/auth"
	"github.com/tu-usuario/taller-pro/internal/application/inventory"
	"github.com/tu-usuario/taller-pro/internal/application/reservation"
	"github.com/tu-usuario/taller-pro/internal/application/sales"
	"github.com/tu-usuario/taller-pro/internal/application/usecase"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	VariantUC        *usecase.VariantUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	StockQuery       *inventory.StockQueryUseCase
	ReservationUC    *reservation.UseCase
	CreateSale       *sales.CreateSaleUseCase
	AddPayment       *sales.AddPaymentUseCase
	SaleQuery        *sales.QueryUseCase
	Receipt          *sales.ReceiptUseCase
	AuthUC           *auth.AuthUseCase
	JWTSecret        string
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

	// Catálogo de variantes (protegido; altas/bajas solo admin)
	variants := protected.Group("/variants")
	variantHandler := NewVariantHandler(deps.VariantUC)
	variants.Get("/", variantHandler.List)
	variants.Get("/:id", variantHandler.GetByID)
	variants.Post("/", RequireRole(entity.RoleAdmin), variantHandler.Create)
	variants.Put("/:id", RequireRole(entity.RoleAdmin), variantHandler.Update)
	variants.Delete("/:id", RequireRole(entity.RoleAdmin), variantHandler.Delete)

	// Inventario: movimientos y existencias (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.StockQuery)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Post("/transfers", inventoryHandler.Transfer)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/stock", inventoryHandler.SearchStock)
	invGroup.Get("/stock/item", inventoryHandler.GetStock)

	// Reservas de refacciones (protegido)
	reservationHandler := NewReservationHandler(deps.ReservationUC)
	protected.Post("/tickets/:id/parts", reservationHandler.Reserve)
	protected.Get("/tickets/:id/parts", reservationHandler.ListByTicket)
	protected.Post("/parts/:id/consume", reservationHandler.Consume)
	protected.Post("/parts/:id/release", reservationHandler.Release)

	// Ventas (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CreateSale, deps.AddPayment, deps.SaleQuery, deps.Receipt)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/payments", saleHandler.AddPayment)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
}
