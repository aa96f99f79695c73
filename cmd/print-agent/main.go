// cmd/print-agent/main.go
package main

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"quickmart/internal/pkg/bootstrap"
	"quickmart/internal/pkg/logger"
	"quickmart/internal/service/print/application"
	"quickmart/internal/service/print/infrastructure"
	"quickmart/internal/service/print/interfaces"
)

const serviceName = "print-agent"

// print-agent 是持有打印系统权限的独立进程，
// 收银进程通过 WebSocket 把小票文档交给它打印。
func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()

	spoolDir := cfg.Infra.PrintAgent.SpoolDir
	if spoolDir == "" {
		spoolDir = os.TempDir()
	}
	if err := os.MkdirAll(spoolDir, 0o700); err != nil {
		logger.Logger().Fatal().Err(err).Str("dir", spoolDir).Msg("failed to create spool directory")
	}

	agent := application.NewAgent(spoolDir, infrastructure.NewCUPSSystem(), cfg.App.Version, otel.Tracer(serviceName))

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8090,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			appCtx.Mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			appCtx.Mux.Handle("/metrics", promhttp.Handler())
			interfaces.NewWsHandler(agent).RegisterRoutes(appCtx.Mux)
		},
	})
}
