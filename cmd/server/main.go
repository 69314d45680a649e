package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mytheresa/storefront/app/carts"
	"github.com/mytheresa/storefront/app/catalog"
	"github.com/mytheresa/storefront/app/categories"
	"github.com/mytheresa/storefront/app/config"
	"github.com/mytheresa/storefront/app/database"
	"github.com/mytheresa/storefront/app/realtime"
	"github.com/mytheresa/storefront/app/server"
	"github.com/mytheresa/storefront/app/telemetry"
	"github.com/mytheresa/storefront/app/views"
	"github.com/mytheresa/storefront/models"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	log, err := telemetry.NewLogger(os.Stdout, cfg.LogLevel)
	if err != nil {
		logrus.Fatalf("build logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled() {
		tp, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
		if err != nil {
			log.Fatalf("init tracing: %v", err)
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Errorf("shutdown tracer provider: %v", err)
			}
		}()
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	productsRepo := models.NewProductsRepository(db)
	cartsRepo := models.NewCartsRepository(db)

	if cfg.SeedOnBoot {
		if err := database.Seed(ctx, productsRepo, cartsRepo, log); err != nil {
			log.Fatal(err)
		}
	}

	hub := realtime.NewHub(productsRepo, log, cfg.AllowedOrigins)
	catalogSvc := catalog.NewService(productsRepo, hub)
	hub.SetCatalog(catalogSvc)
	cartSvc := carts.NewService(cartsRepo, productsRepo)

	viewHandler, err := views.NewViewHandler(catalogSvc, cartSvc, log)
	if err != nil {
		log.Fatalf("parse templates: %v", err)
	}

	router := server.NewRouter(server.Options{
		Log:         log,
		ServiceName: cfg.ServiceName,
		Tracing:     cfg.TracingEnabled(),
		Health: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	},
		catalog.NewCatalogHandler(catalogSvc, log),
		categories.NewCategoryHandler(productsRepo, log),
		carts.NewCartHandler(cartSvc, log),
		viewHandler,
		hub,
	)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("storefront listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
