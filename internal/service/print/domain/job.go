// internal/service/print/domain/job.go
package domain

// Kind 是打印桥请求的操作类型。
type Kind string

const (
	KindPrintReceipt Kind = "print-receipt"
	KindAppVersion   Kind = "get-app-version"
	KindPlatform     Kind = "get-platform"
)

// PrintRequest 是收银进程发给打印宿主的请求帧。
// RequestID 由发起方生成，响应帧必须原样带回，同一连接允许并发多个在途请求。
type PrintRequest struct {
	RequestID string `json:"requestId"`
	Kind      Kind   `json:"kind"`
	// Document 仅在 print-receipt 时携带，是自包含的小票 HTML
	Document string `json:"document,omitempty"`
}

// PrintResponse 是打印宿主的响应帧。
// Success 为 false 时 ErrorKind 携带类型化失败原因，Reason 是面向日志的补充说明。
type PrintResponse struct {
	RequestID string `json:"requestId"`
	Success   bool   `json:"success"`
	ErrorKind string `json:"errorKind,omitempty"`
	Reason    string `json:"reason,omitempty"`
	// Result 携带查询类请求的返回值（版本号 / 平台标识）
	Result string `json:"result,omitempty"`
}
