package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/auth"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/bootstrap"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/cart"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/checkout"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/config"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/handlers"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/idempotency"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/logging"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/menu"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/payments"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(r, cfg)

	return r
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := logging.New(os.Stdout, "orderflow-api", cfg.LogLevel)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("failed to resolve timezone: %v", err)
	}

	rt, err := bootstrap.New(ctx, cfg, logger, "orderflow-api")
	if err != nil {
		log.Fatalf("failed to init runtime: %v", err)
	}
	defer rt.Close()

	sessions := auth.NewManager(auth.NewLocalIdentity(rt.Store), rt.Store, logger)
	defer sessions.Close()

	catalog := menu.NewCatalog(rt.Store, logger)
	if cfg.SeedMenu || cfg.RunLocal {
		if err := catalog.Seed(ctx, menu.SampleItems(time.Now())); err != nil {
			log.Fatalf("failed to seed menu: %v", err)
		}
	}

	orderStore := orders.NewStore(rt.Store)
	carts := cart.NewRegistry()

	hcfg := handlers.HandlerConfig{
		Sessions: sessions,
		Catalog:  catalog,
		Carts:    carts,
		Engine:   orders.NewEngine(orderStore, rt.Events, rt.Metrics, logger),
		Checkout: checkout.NewService(checkout.Deps{
			Orders:      orderStore,
			Payments:    payments.NewLedger(rt.Store),
			Carts:       carts,
			Idempotency: idempotency.NewStore(rt.Store, cfg.Orders.IdempotencyTTL),
			Events:      rt.Events,
			Metrics:     rt.Metrics,
			Logger:      logger,
			DeliveryFee: decimal.NewFromFloat(cfg.Orders.DeliveryFee),
		}),
		Timeline: rt.Timeline,
		Logger:   logger,
		Location: loc,
	}

	r := setupRouter(hcfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if cfg.RunLocal {
		log.Printf("running local server on %s", cfg.HTTPAddr)
		if err := r.Run(cfg.HTTPAddr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
