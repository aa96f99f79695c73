// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"quickmart/internal/pkg/logger"
)

// Config 是整个应用的配置根。
// 通过 CONFIG_PATH 指定的 YAML 文件加载，个别地址类配置允许环境变量覆盖，
// 以便在容器和桌面打包两种交付形态下复用同一份默认配置。
type Config struct {
	App struct {
		Name     string `yaml:"name"`
		Version  string `yaml:"version"`
		Currency string `yaml:"currency"`
		Language string `yaml:"language"`

		FeatureFlags struct {
			// EnableOrderEvents 控制结账成功后是否向 Kafka 发布订单完成事件
			EnableOrderEvents bool `yaml:"enable_order_events"`
		} `yaml:"feature_flags"`

		// ExtraCoupons 允许在内置优惠券表之外追加带规则的优惠券
		ExtraCoupons []CouponConfig `yaml:"extra_coupons"`
	} `yaml:"app"`

	Infra struct {
		Mysql struct {
			DSN string `yaml:"dsn"`
		} `yaml:"mysql"`
		Redis struct {
			Addrs string `yaml:"addrs"`
		} `yaml:"redis"`
		Kafka struct {
			Brokers    string `yaml:"brokers"`
			OrderTopic string `yaml:"order_topic"`
		} `yaml:"kafka"`
		Jaeger struct {
			Endpoint string `yaml:"endpoint"`
		} `yaml:"jaeger"`
		Nacos struct {
			Enabled     bool   `yaml:"enabled"`
			ServerAddrs string `yaml:"server_addrs"`
			Namespace   string `yaml:"namespace"`
			Group       string `yaml:"group"`
		} `yaml:"nacos"`
		PrintAgent struct {
			// Addr 是打印代理的 WebSocket 地址，Nacos 开启时可被服务发现覆盖
			Addr           string `yaml:"addr"`
			ServiceName    string `yaml:"service_name"`
			TimeoutSeconds int    `yaml:"timeout_seconds"`
			SpoolDir       string `yaml:"spool_dir"`
		} `yaml:"print_agent"`
	} `yaml:"infra"`
}

// CouponConfig 描述一张通过配置下发的优惠券。
// Discount < 1 表示折扣率，>= 1 表示固定金额；Rule 是可选的 CEL 适用条件表达式。
type CouponConfig struct {
	Code     string  `yaml:"code"`
	Discount float64 `yaml:"discount"`
	Rule     string  `yaml:"rule"`
}

var currentConfig atomic.Pointer[Config]

// Init 加载配置。必须在 StartService 或任何 GetCurrentConfig 调用之前执行。
func Init() {
	cfg := defaultConfig()

	path := getEnv("CONFIG_PATH", "configs/config.yaml")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			logger.Logger().Fatal().Err(err).Str("path", path).Msg("invalid config file")
		}
	case os.IsNotExist(err):
		logger.Logger().Warn().Str("path", path).Msg("config file not found, using built-in defaults")
	default:
		logger.Logger().Fatal().Err(err).Str("path", path).Msg("could not read config file")
	}

	applyEnvOverrides(cfg)
	currentConfig.Store(cfg)
}

// GetCurrentConfig 返回当前生效的配置。
func GetCurrentConfig() *Config {
	cfg := currentConfig.Load()
	if cfg == nil {
		cfg = defaultConfig()
		applyEnvOverrides(cfg)
		currentConfig.Store(cfg)
	}
	return cfg
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.App.Name = "quickmart-pos"
	cfg.App.Version = "1.4.2"
	cfg.App.Currency = "USD"
	cfg.App.Language = "en"
	cfg.Infra.Mysql.DSN = "pos:pos@tcp(localhost:3306)/quickmart?charset=utf8mb4&parseTime=True&loc=Local"
	cfg.Infra.Redis.Addrs = "localhost:6379"
	cfg.Infra.Kafka.Brokers = "localhost:9092"
	cfg.Infra.Kafka.OrderTopic = "pos-order-completed"
	cfg.Infra.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	cfg.Infra.Nacos.Group = "DEFAULT_GROUP"
	cfg.Infra.PrintAgent.Addr = "ws://localhost:8090/ws"
	cfg.Infra.PrintAgent.ServiceName = "print-agent"
	cfg.Infra.PrintAgent.TimeoutSeconds = 30
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	cfg.Infra.Mysql.DSN = getEnv("MYSQL_DSN", cfg.Infra.Mysql.DSN)
	cfg.Infra.Redis.Addrs = getEnv("REDIS_ADDRS", cfg.Infra.Redis.Addrs)
	cfg.Infra.Kafka.Brokers = getEnv("KAFKA_BROKERS", cfg.Infra.Kafka.Brokers)
	cfg.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", cfg.Infra.Jaeger.Endpoint)
	cfg.Infra.Nacos.ServerAddrs = getEnv("NACOS_SERVER_ADDRS", cfg.Infra.Nacos.ServerAddrs)
	cfg.Infra.PrintAgent.Addr = getEnv("PRINT_AGENT_ADDR", cfg.Infra.PrintAgent.Addr)
	cfg.Infra.PrintAgent.SpoolDir = getEnv("PRINT_SPOOL_DIR", cfg.Infra.PrintAgent.SpoolDir)
}

// getEnv 是一个内部辅助函数，从环境变量中读取配置。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
