// internal/service/print/port/system.go
package port

import "context"

// PrinterSystem 是宿主操作系统打印子系统的端口。
type PrinterSystem interface {
	// ListPrinters 枚举可用打印机名，可能为空切片。
	ListPrinters(ctx context.Context) ([]string, error)
	// Dispatch 把文件提交给指定打印机的队列。
	Dispatch(ctx context.Context, printer, path string) error
}
