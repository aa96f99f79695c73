// internal/service/print/application/agent.go
package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"quickmart/internal/pkg/logger"
	"quickmart/internal/service/print/domain"
	"quickmart/internal/service/print/port"
)

// Agent 是打印宿主的应用服务：装载小票文档、枚举打印机、派发任务。
// 每次打印的生命周期是 spool 文件的生命周期，无论成败都在返回前清理。
type Agent struct {
	spoolDir string
	system   port.PrinterSystem
	version  string
	tracer   trace.Tracer
	nowFunc  func() time.Time
}

func NewAgent(spoolDir string, system port.PrinterSystem, version string, tracer trace.Tracer) *Agent {
	return &Agent{
		spoolDir: spoolDir,
		system:   system,
		version:  version,
		tracer:   tracer,
		nowFunc:  time.Now,
	}
}

// Print 执行一次完整的打印流程。
// 失败返回类型化错误：装载失败 ErrLoadFailed，无打印机 ErrNoPrinters，
// 派发失败 ErrPrintFailed。spool 文件在所有路径上都会被清理。
func (a *Agent) Print(ctx context.Context, document string) error {
	ctx, span := a.tracer.Start(ctx, "print.Print")
	defer span.End()

	path := filepath.Join(a.spoolDir, fmt.Sprintf("receipt-%d.html", a.nowFunc().UnixNano()))
	if err := os.WriteFile(path, []byte(document), 0o600); err != nil {
		span.RecordError(err)
		return errors.Wrap(domain.ErrLoadFailed, err.Error())
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("failed to remove spool file")
		}
	}()

	printers, err := a.system.ListPrinters(ctx)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(domain.ErrPrintFailed, err.Error())
	}
	if len(printers) == 0 {
		return domain.ErrNoPrinters
	}
	span.SetAttributes(attribute.Int("printers.count", len(printers)))

	// 用第一台可用打印机，收银终端通常只接一台小票机
	if err := a.system.Dispatch(ctx, printers[0], path); err != nil {
		span.RecordError(err)
		return errors.Wrap(domain.ErrPrintFailed, err.Error())
	}

	logger.Ctx(ctx).Info().Str("printer", printers[0]).Msg("receipt dispatched to printer")
	return nil
}

// Version 返回宿主应用版本。
func (a *Agent) Version() string {
	return a.version
}

// Platform 返回宿主平台标识。
func (a *Agent) Platform() string {
	return runtime.GOOS
}
