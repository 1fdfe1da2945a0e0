package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/craftfood/inventory-ledger/internal/application/inventory"
	"github.com/craftfood/inventory-ledger/internal/application/settlement"
	"github.com/craftfood/inventory-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/craftfood/inventory-ledger/internal/interfaces/http"
	"github.com/craftfood/inventory-ledger/pkg/config"
	"github.com/craftfood/inventory-ledger/pkg/logger"
)

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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	invRepo := postgres.NewIngredientInventoryRepository(pool)
	ledgerRepo := postgres.NewInventoryTransactionRepository(pool)
	recipeRepo := postgres.NewRecipeRepository(pool)
	ingredientRepo := postgres.NewIngredientRepository(pool)
	orderItemRepo := postgres.NewOrderItemRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := inventory.NewLedgerUseCase(txRunner, invRepo, ledgerRepo, log)
	consumptionUC := inventory.NewConsumptionUseCase(txRunner, recipeRepo, ingredientRepo, log)
	settlementUC := settlement.NewSettlementUseCase(txRunner, orderItemRepo, recipeRepo, consumptionUC, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LedgerUC:      ledgerUC,
		ConsumptionUC: consumptionUC,
		SettlementUC:  settlementUC,
		JWTSecret:     cfg.JWT.Secret,
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
