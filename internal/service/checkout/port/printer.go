// internal/service/checkout/port/printer.go
package port

import "context"

// ReceiptPrinter 是打印桥在收银侧的端口：
// 把渲染好的小票文档交给特权宿主进程打印，并提供宿主信息查询。
type ReceiptPrinter interface {
	// PrintReceipt 发起一次打印请求并等待宿主返回结果。
	// 失败以 print 域的类型化错误报告（NoPrinters / LoadFailed / PrintFailed / Timeout）。
	PrintReceipt(ctx context.Context, document string) error

	// AppVersion 查询宿主应用版本，只读，总是成功（网络异常除外）。
	AppVersion(ctx context.Context) (string, error)

	// Platform 查询宿主平台标识。
	Platform(ctx context.Context) (string, error)
}
