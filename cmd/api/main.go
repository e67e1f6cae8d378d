package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Almacen-api/internal/application/auth"
	appcomposition "github.com/jhoicas/Almacen-api/internal/application/composition"
	"github.com/jhoicas/Almacen-api/internal/application/packaging"
	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	domcomp "github.com/jhoicas/Almacen-api/internal/domain/composition"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
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

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	unitRepo := postgres.NewPackagingUnitRepository(pool)
	ruleRepo := postgres.NewConversionRuleRepository(pool)
	stockRepo := postgres.NewStockLineRepository(pool)
	palletRepo := postgres.NewPalletRepository(pool)
	compositionRepo := postgres.NewCompositionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	engine := domcomp.NewEngine(cfg.Engine.WarnThreshold, cfg.Engine.MinEfficiency, cfg.Engine.MaxArrangementItems)

	consolidator := stock.NewConsolidator(stockRepo, unitRepo)
	productUC := usecase.NewProductUseCase(productRepo, int32(cfg.Engine.DefaultPrecision))
	palletUC := usecase.NewPalletUseCase(palletRepo, cfg.Engine.MaxStackHeightCm)
	packagingUC := packaging.NewUseCase(unitRepo, stockRepo, compositionRepo, ruleRepo)
	stockUC := stock.NewUseCase(stockRepo, unitRepo, productRepo)
	composeUC := appcomposition.NewComposeUseCase(productRepo, unitRepo, palletRepo, consolidator, engine)
	lifecycleUC := appcomposition.NewLifecycleUseCase(compositionRepo, unitRepo, composeUC, txRunner)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
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

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ProductUC:    productUC,
		PalletUC:     palletUC,
		PackagingUC:  packagingUC,
		StockUC:      stockUC,
		Consolidator: consolidator,
		ComposeUC:    composeUC,
		LifecycleUC:  lifecycleUC,
		JWTSecret:    cfg.JWT.Secret,
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
