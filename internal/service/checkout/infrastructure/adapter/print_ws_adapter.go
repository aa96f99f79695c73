// internal/service/checkout/infrastructure/adapter/print_ws_adapter.go
package adapter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"quickmart/internal/pkg/logger"
	"quickmart/internal/pkg/nacos"
	printdomain "quickmart/internal/service/print/domain"
)

// PrintWsAdapter 是打印桥在收银侧的 WebSocket 客户端。
// 一条长连接承载所有请求，requestId 关联响应，允许并发在途请求。
// 连接懒建立，断开后下次请求重连。
type PrintWsAdapter struct {
	addr    string
	timeout time.Duration

	// 配置了 nacos 时优先走服务发现，addr 退化为兜底地址
	nacosClient *nacos.Client
	serviceName string

	mu      sync.Mutex
	conn    *websocket.Conn
	writeMu sync.Mutex
	pending map[string]chan rtResult
	newID   func() string
}

// rtResult 是单次请求的终态，由读循环或断连清理二者之一投递。
type rtResult struct {
	resp printdomain.PrintResponse
	err  error
}

// NewPrintWsAdapter 创建打印桥客户端。nacosClient 可以为 nil。
func NewPrintWsAdapter(addr string, timeout time.Duration, nacosClient *nacos.Client, serviceName string) *PrintWsAdapter {
	return &PrintWsAdapter{
		addr:        addr,
		timeout:     timeout,
		nacosClient: nacosClient,
		serviceName: serviceName,
		pending:     make(map[string]chan rtResult),
		newID:       uuid.NewString,
	}
}

// PrintReceipt 发送小票文档并等待宿主打印结果。
func (a *PrintWsAdapter) PrintReceipt(ctx context.Context, document string) error {
	resp, err := a.roundTrip(ctx, printdomain.PrintRequest{
		Kind:     printdomain.KindPrintReceipt,
		Document: document,
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return errors.Wrap(printdomain.ErrorOfKind(resp.ErrorKind), resp.Reason)
	}
	return nil
}

// AppVersion 查询宿主应用版本。
func (a *PrintWsAdapter) AppVersion(ctx context.Context) (string, error) {
	resp, err := a.roundTrip(ctx, printdomain.PrintRequest{Kind: printdomain.KindAppVersion})
	if err != nil {
		return "", err
	}
	return resp.Result, nil
}

// Platform 查询宿主平台标识。
func (a *PrintWsAdapter) Platform(ctx context.Context) (string, error) {
	resp, err := a.roundTrip(ctx, printdomain.PrintRequest{Kind: printdomain.KindPlatform})
	if err != nil {
		return "", err
	}
	return resp.Result, nil
}

// Close 关闭长连接。
func (a *PrintWsAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn != nil {
		err := a.conn.Close()
		a.conn = nil
		return err
	}
	return nil
}

func (a *PrintWsAdapter) roundTrip(ctx context.Context, req printdomain.PrintRequest) (printdomain.PrintResponse, error) {
	req.RequestID = a.newID()

	conn, err := a.ensureConn(ctx)
	if err != nil {
		return printdomain.PrintResponse{}, errors.Wrap(printdomain.ErrAgentUnavailable, err.Error())
	}

	ch := make(chan rtResult, 1)
	a.mu.Lock()
	a.pending[req.RequestID] = ch
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		delete(a.pending, req.RequestID)
		a.mu.Unlock()
	}()

	a.writeMu.Lock()
	err = conn.WriteJSON(req)
	a.writeMu.Unlock()
	if err != nil {
		a.dropConn(conn)
		return printdomain.PrintResponse{}, errors.Wrap(printdomain.ErrAgentUnavailable, err.Error())
	}

	// 宿主可能卡在打印对话框或驱动上，等待必须有界
	timer := time.NewTimer(a.timeout)
	defer timer.Stop()
	select {
	case res := <-ch:
		return res.resp, res.err
	case <-timer.C:
		return printdomain.PrintResponse{}, printdomain.ErrPrintTimeout
	case <-ctx.Done():
		return printdomain.PrintResponse{}, ctx.Err()
	}
}

// ensureConn 返回活动连接，必要时建立新连接并启动读循环。
func (a *PrintWsAdapter) ensureConn(ctx context.Context) (*websocket.Conn, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn != nil {
		return a.conn, nil
	}

	addr := a.addr
	if a.nacosClient != nil {
		if ip, port, err := a.nacosClient.DiscoverServiceInstance(a.serviceName); err == nil {
			addr = fmt.Sprintf("ws://%s:%d/ws", ip, port)
		} else {
			logger.Logger().Warn().Err(err).Str("service", a.serviceName).Msg("print agent discovery failed, using configured address")
		}
	}

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.DialContext(ctx, addr, nil)
	if err != nil {
		return nil, err
	}
	a.conn = conn
	go a.readLoop(conn)
	logger.Logger().Info().Str("addr", addr).Msg("connected to print agent")
	return conn, nil
}

// readLoop 把响应帧派发给等待中的请求。连接断开时清理并唤醒所有等待者。
func (a *PrintWsAdapter) readLoop(conn *websocket.Conn) {
	for {
		var resp printdomain.PrintResponse
		if err := conn.ReadJSON(&resp); err != nil {
			a.dropConn(conn)
			return
		}
		a.mu.Lock()
		ch, ok := a.pending[resp.RequestID]
		if ok {
			delete(a.pending, resp.RequestID)
		}
		a.mu.Unlock()
		if ok {
			ch <- rtResult{resp: resp}
		}
	}
}

// dropConn 关闭连接并让所有在途请求立即失败，而不是等到超时。
func (a *PrintWsAdapter) dropConn(conn *websocket.Conn) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn == conn {
		a.conn = nil
	}
	for id, ch := range a.pending {
		delete(a.pending, id)
		ch <- rtResult{err: printdomain.ErrAgentUnavailable}
	}
	conn.Close()
}
