// internal/service/checkout/infrastructure/adapter/print_fallback.go
package adapter

import (
	"context"

	"github.com/pkg/errors"

	"quickmart/internal/pkg/logger"
	"quickmart/internal/service/checkout/port"
	printdomain "quickmart/internal/service/print/domain"
)

// FallbackPrinter 优先走打印宿主，宿主不可达时降级到本地打印。
// 只有连接层面的失败触发降级，宿主明确报告的打印失败原样透传。
type FallbackPrinter struct {
	primary  port.ReceiptPrinter
	fallback port.ReceiptPrinter
}

func NewFallbackPrinter(primary, fallback port.ReceiptPrinter) *FallbackPrinter {
	return &FallbackPrinter{primary: primary, fallback: fallback}
}

func (f *FallbackPrinter) PrintReceipt(ctx context.Context, document string) error {
	err := f.primary.PrintReceipt(ctx, document)
	if err != nil && errors.Is(err, printdomain.ErrAgentUnavailable) {
		logger.Ctx(ctx).Warn().Err(err).Msg("print agent unreachable, falling back to local printing")
		return f.fallback.PrintReceipt(ctx, document)
	}
	return err
}

func (f *FallbackPrinter) AppVersion(ctx context.Context) (string, error) {
	version, err := f.primary.AppVersion(ctx)
	if err != nil && errors.Is(err, printdomain.ErrAgentUnavailable) {
		return f.fallback.AppVersion(ctx)
	}
	return version, err
}

func (f *FallbackPrinter) Platform(ctx context.Context) (string, error) {
	platform, err := f.primary.Platform(ctx)
	if err != nil && errors.Is(err, printdomain.ErrAgentUnavailable) {
		return f.fallback.Platform(ctx)
	}
	return platform, err
}
