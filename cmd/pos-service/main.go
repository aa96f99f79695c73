// cmd/pos-service/main.go
package main

import (
	"context"
	"os"
	"strings"
	"time"

	segkafka "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"quickmart/internal/pkg/bootstrap"
	"quickmart/internal/pkg/i18n"
	"quickmart/internal/pkg/logger"
	"quickmart/internal/pkg/mq"
	"quickmart/internal/pkg/redis"
	"quickmart/internal/service/checkout/application"
	"quickmart/internal/service/checkout/domain"
	"quickmart/internal/service/checkout/infrastructure"
	"quickmart/internal/service/checkout/infrastructure/adapter"
	"quickmart/internal/service/checkout/infrastructure/rule"
	"quickmart/internal/service/checkout/interfaces"
	"quickmart/internal/service/checkout/port"
	printapp "quickmart/internal/service/print/application"
	printinfra "quickmart/internal/service/print/infrastructure"
)

const serviceName = "pos-service"

// main 函数是应用的"组装根" (Composition Root)
// 它的核心职责是：创建并组装所有依赖项，然后启动应用。
func main() {
	bootstrap.Init()
	logger.Init(serviceName)
	cfg := bootstrap.GetCurrentConfig()

	catalog, err := domain.LoadCatalog()
	if err != nil {
		logger.Logger().Fatal().Err(err).Msg("failed to load product catalog")
	}
	labels, err := i18n.Load()
	if err != nil {
		logger.Logger().Fatal().Err(err).Msg("failed to load label table")
	}

	// 外部依赖的初始化互不相关，并发进行
	var (
		db          *gorm.DB
		redisClient *redis.Client
		kafkaWriter *segkafka.Writer
	)
	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() error {
		var err error
		db, err = gorm.Open(mysql.Open(cfg.Infra.Mysql.DSN), &gorm.Config{})
		return err
	})
	g.Go(func() error {
		var err error
		redisClient, err = redis.NewClient(cfg.Infra.Redis.Addrs)
		if err != nil {
			// Redis 只承载购物车恢复，不可用时降级为纯内存模式
			logger.Logger().Warn().Err(err).Msg("redis unavailable, cart will not survive restarts")
			redisClient = nil
		}
		return nil
	})
	g.Go(func() error {
		if cfg.App.FeatureFlags.EnableOrderEvents {
			kafkaWriter = mq.NewKafkaWriter(strings.Split(cfg.Infra.Kafka.Brokers, ","), cfg.Infra.Kafka.OrderTopic)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Logger().Fatal().Err(err).Msg("failed to initialize infrastructure")
	}

	var cartRepo domain.CartRepository
	if redisClient != nil {
		cartRepo = infrastructure.NewRedisCartRepository(redisClient.GetClient())
	} else {
		cartRepo = infrastructure.NewMemoryCartRepository()
	}

	orderRepo, err := infrastructure.NewGormOrderRepository(db)
	if err != nil {
		logger.Logger().Fatal().Err(err).Msg("failed to initialize order repository")
	}

	var notifier port.OrderNotifier
	if kafkaWriter != nil {
		notifier = infrastructure.NewKafkaOrderNotifier(kafkaWriter)
	}

	ruleEngine, err := rule.NewCELEngine()
	if err != nil {
		logger.Logger().Fatal().Err(err).Msg("failed to initialize rule engine")
	}

	coupons := domain.NewCouponTable(domain.BuiltinCoupons(), extraCoupons(cfg))

	service := application.NewCheckoutService(
		catalog, coupons, ruleEngine,
		cartRepo, orderRepo, notifier,
		otel.Tracer(serviceName),
	)
	if err := service.Restore(context.Background()); err != nil {
		logger.Logger().Warn().Err(err).Msg("could not restore cart, starting empty")
	}

	renderer, err := application.NewReceiptRenderer(labels)
	if err != nil {
		logger.Logger().Fatal().Err(err).Msg("failed to build receipt renderer")
	}

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8080,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			printer := buildPrinter(cfg, appCtx)
			handler := interfaces.NewCheckoutHandler(service, renderer, printer, labels)
			handler.RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: func(ctx context.Context) {
			if kafkaWriter != nil {
				if err := kafkaWriter.Close(); err != nil {
					logger.Logger().Error().Err(err).Msg("error closing kafka writer")
				}
			}
			if redisClient != nil {
				if err := redisClient.Close(); err != nil {
					logger.Logger().Error().Err(err).Msg("error closing redis client")
				}
			}
		},
	})
}

// buildPrinter 组装打印端口：WebSocket 打印桥优先，宿主不可达时回退本地打印。
func buildPrinter(cfg *bootstrap.Config, appCtx bootstrap.AppCtx) port.ReceiptPrinter {
	pa := cfg.Infra.PrintAgent
	timeout := time.Duration(pa.TimeoutSeconds) * time.Second

	wsPrinter := adapter.NewPrintWsAdapter(pa.Addr, timeout, appCtx.Nacos, pa.ServiceName)

	spoolDir := pa.SpoolDir
	if spoolDir == "" {
		spoolDir = os.TempDir()
	}
	localAgent := printapp.NewAgent(spoolDir, printinfra.NewCUPSSystem(), cfg.App.Version, otel.Tracer(serviceName))
	return adapter.NewFallbackPrinter(wsPrinter, adapter.NewLocalPrintAdapter(localAgent))
}

func extraCoupons(cfg *bootstrap.Config) []domain.Coupon {
	coupons := make([]domain.Coupon, 0, len(cfg.App.ExtraCoupons))
	for _, c := range cfg.App.ExtraCoupons {
		coupons = append(coupons, domain.Coupon{
			Code:     domain.CanonicalCouponCode(c.Code),
			Discount: c.Discount,
			Rule:     c.Rule,
		})
	}
	return coupons
}
