// internal/service/print/domain/errors.go
package domain

import "errors"

// 打印失败是类型化的，调用方据此给用户不同的提示。
var (
	// ErrNoPrinters 宿主上没有任何可用打印机
	ErrNoPrinters = errors.New("no printers available")
	// ErrLoadFailed 小票文档无法装载到打印缓冲（宿主侧 I/O 失败）
	ErrLoadFailed = errors.New("failed to load receipt document")
	// ErrPrintFailed 打印系统拒绝或中断了任务
	ErrPrintFailed = errors.New("failed to print receipt")
	// ErrPrintTimeout 在约定时间内没有等到宿主响应
	ErrPrintTimeout = errors.New("print request timed out")
	// ErrAgentUnavailable 打印宿主进程不可达
	ErrAgentUnavailable = errors.New("print agent unavailable")
)

// 与响应帧 errorKind 字段的对应关系。
const (
	ErrorKindNoPrinters  = "no-printers"
	ErrorKindLoadFailed  = "load-failed"
	ErrorKindPrintFailed = "print-failed"
)

// KindOfError 把类型化错误编码为 errorKind 字段值。
func KindOfError(err error) string {
	switch {
	case errors.Is(err, ErrNoPrinters):
		return ErrorKindNoPrinters
	case errors.Is(err, ErrLoadFailed):
		return ErrorKindLoadFailed
	default:
		return ErrorKindPrintFailed
	}
}

// ErrorOfKind 把 errorKind 字段值还原为类型化错误。
func ErrorOfKind(kind string) error {
	switch kind {
	case ErrorKindNoPrinters:
		return ErrNoPrinters
	case ErrorKindLoadFailed:
		return ErrLoadFailed
	default:
		return ErrPrintFailed
	}
}
