// internal/service/print/interfaces/ws_handler.go
package interfaces

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"quickmart/internal/pkg/logger"
	"quickmart/internal/service/print/application"
	"quickmart/internal/service/print/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool { // 只服务本机收银进程，允许所有来源
		return true
	},
}

// WsHandler 在一条 WebSocket 连接上处理打印桥请求。
// 同一连接可以并发多个在途请求，靠 requestId 关联响应。
type WsHandler struct {
	agent *application.Agent
}

func NewWsHandler(agent *application.Agent) *WsHandler {
	return &WsHandler{agent: agent}
}

func (h *WsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.serveWs)
}

func (h *WsHandler) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Logger().Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()
	logger.Logger().Info().Str("remote", conn.RemoteAddr().String()).Msg("pos client connected")

	// gorilla 不允许并发写，所有响应经同一把锁
	var writeMu sync.Mutex
	var wg sync.WaitGroup

	for {
		var req domain.PrintRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Logger().Error().Err(err).Msg("websocket read failed")
			}
			break
		}

		wg.Add(1)
		go func(req domain.PrintRequest) {
			defer wg.Done()
			resp := h.handle(r.Context(), req)
			writeMu.Lock()
			defer writeMu.Unlock()
			if err := conn.WriteJSON(resp); err != nil {
				logger.Logger().Error().Err(err).Str("request_id", req.RequestID).Msg("failed to write response")
			}
		}(req)
	}

	wg.Wait()
	logger.Logger().Info().Str("remote", conn.RemoteAddr().String()).Msg("pos client disconnected")
}

func (h *WsHandler) handle(ctx context.Context, req domain.PrintRequest) domain.PrintResponse {
	resp := domain.PrintResponse{RequestID: req.RequestID}

	switch req.Kind {
	case domain.KindPrintReceipt:
		if err := h.agent.Print(ctx, req.Document); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("request_id", req.RequestID).Msg("print failed")
			resp.ErrorKind = domain.KindOfError(err)
			resp.Reason = err.Error()
			return resp
		}
		resp.Success = true
	case domain.KindAppVersion:
		resp.Success = true
		resp.Result = h.agent.Version()
	case domain.KindPlatform:
		resp.Success = true
		resp.Result = h.agent.Platform()
	default:
		resp.ErrorKind = domain.ErrorKindPrintFailed
		resp.Reason = "unknown request kind: " + string(req.Kind)
	}
	return resp
}
