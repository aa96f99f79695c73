// internal/service/checkout/infrastructure/adapter/print_local_adapter.go
package adapter

import (
	"context"

	"quickmart/internal/service/print/application"
)

// LocalPrintAdapter 在宿主进程不可达时直接在本进程内走打印流程。
// 收银进程通常没有打印系统权限，这只是尽力而为的兜底。
type LocalPrintAdapter struct {
	agent *application.Agent
}

func NewLocalPrintAdapter(agent *application.Agent) *LocalPrintAdapter {
	return &LocalPrintAdapter{agent: agent}
}

func (a *LocalPrintAdapter) PrintReceipt(ctx context.Context, document string) error {
	return a.agent.Print(ctx, document)
}

func (a *LocalPrintAdapter) AppVersion(ctx context.Context) (string, error) {
	return a.agent.Version(), nil
}

func (a *LocalPrintAdapter) Platform(ctx context.Context) (string, error) {
	return a.agent.Platform(), nil
}
