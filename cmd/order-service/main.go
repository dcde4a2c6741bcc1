package main

import (
	"context"
	"flag"
	"log"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"bazaar/internal/pkg/bootstrap"
	"bazaar/internal/pkg/config"
	"bazaar/internal/pkg/httpclient"
	"bazaar/internal/service/order/application"
	"bazaar/internal/service/order/infrastructure"
	"bazaar/internal/service/order/infrastructure/adapter"
	"bazaar/internal/service/order/interfaces"
)

// main is the composition root: it builds every dependency, wires them
// together and hands the result to bootstrap.
func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	}

	registry := infrastructure.NewRegistry(cfg.MySQL.DSNTemplate, redisClient)

	tracer := otel.Tracer(cfg.Service.Name)
	httpClient := httpclient.NewClient(tracer)

	cartAdapter := adapter.NewCartHTTPAdapter(httpClient, cfg.Cart.BaseURL)
	stockAdapter := adapter.NewStockHTTPAdapter(httpClient, cfg.Stock.BaseURL)
	publisher := adapter.NewAMQPPublisher(cfg.AMQP.URL)

	service := application.NewOrderApplicationService(
		registry,
		cartAdapter,
		stockAdapter,
		publisher,
		cfg.AMQP.Queue,
		tracer,
	)

	handler := interfaces.NewOrderHandler(service, registry, cfg.RequestTimeout())

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName:    cfg.Service.Name,
		Port:           cfg.Service.Port,
		JaegerEndpoint: cfg.Jaeger.Endpoint,
		Handler:        handler.Router(),
		Cleanup: []func(ctx context.Context){
			registry.Close,
			func(context.Context) {
				if redisClient != nil {
					redisClient.Close()
				}
			},
		},
	})
}
