package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/taller-pro/internal/application/auth"
	"github.com/tu-usuario/taller-pro/internal/application/folio"
	"github.com/tu-usuario/taller-pro/internal/application/inventory"
	"github.com/tu-usuario/taller-pro/internal/application/reservation"
	"github.com/tu-usuario/taller-pro/internal/application/sales"
	"github.com/tu-usuario/taller-pro/internal/application/usecase"
	"github.com/tu-usuario/taller-pro/internal/infrastructure/events"
	infrapdf "github.com/tu-usuario/taller-pro/internal/infrastructure/pdf"
	"github.com/tu-usuario/taller-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/taller-pro/internal/interfaces/http"
	"github.com/tu-usuario/taller-pro/pkg/config"
	"github.com/tu-usuario/taller-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Publicador de eventos: Kafka si hay brokers configurados, noop si no.
	var publisher interface {
		Publish(ctx context.Context, eventType string, payload any)
	}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPub := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer kafkaPub.Close()
		publisher = kafkaPub
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("eventos: Kafka habilitado")
	} else {
		publisher = events.NewNoopPublisher()
		log.Info().Msg("eventos: sin brokers, publisher noop")
	}

	branchRepo := postgres.NewBranchRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	variantRepo := postgres.NewVariantRepository(pool)
	ticketRepo := postgres.NewTicketRepository(pool)
	ticketPartRepo := postgres.NewTicketPartRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	folioRepo := postgres.NewFolioRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	variantUC := usecase.NewVariantUseCase(variantRepo)
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, variantRepo, branchRepo, publisher)
	stockQueryUC := inventory.NewStockQueryUseCase(stockRepo, movementRepo)
	reservationUC := reservation.New(txRunner, ticketPartRepo, publisher)
	folioUC := folio.New(folioRepo, branchRepo, cfg.Engine.SeqMaxRetries)
	createSaleUC := sales.NewCreateSaleUseCase(
		txRunner, variantRepo, branchRepo, customerRepo, ticketRepo,
		folioUC, registerMovementUC, reservationUC, publisher,
	)
	addPaymentUC := sales.NewAddPaymentUseCase(txRunner, publisher)
	saleQueryUC := sales.NewQueryUseCase(saleRepo)
	receiptGenerator := infrapdf.NewMarotoReceiptGenerator()
	receiptUC := sales.NewReceiptUseCase(saleRepo, branchRepo, customerRepo, receiptGenerator)
	authUC := auth.NewAuthUseCase(userRepo, branchRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Taller Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		VariantUC:        variantUC,
		RegisterMovement: registerMovementUC,
		StockQuery:       stockQueryUC,
		ReservationUC:    reservationUC,
		CreateSale:       createSaleUC,
		AddPayment:       addPaymentUC,
		SaleQuery:        saleQueryUC,
		Receipt:          receiptUC,
		AuthUC:           authUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando servidor")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
}
