// internal/service/checkout/interfaces/http_handler.go
package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"quickmart/internal/pkg/bootstrap"
	"quickmart/internal/pkg/i18n"
	"quickmart/internal/pkg/logger"
	"quickmart/internal/pkg/validation"
	"quickmart/internal/service/checkout/application"
	"quickmart/internal/service/checkout/domain"
	"quickmart/internal/service/checkout/port"
	printdomain "quickmart/internal/service/print/domain"
)

const defaultTopProducts = 5

var (
	ordersCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_orders_completed_total",
		Help: "Completed checkouts by payment method.",
	}, []string{"payment_method"})

	couponApplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_coupon_applies_total",
		Help: "Coupon apply attempts by result.",
	}, []string{"result"})

	printRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_print_requests_total",
		Help: "Receipt print requests by result.",
	}, []string{"result"})
)

// CheckoutHandler 封装了收银核心的 HTTP 处理器。
type CheckoutHandler struct {
	service  *application.CheckoutService
	renderer *application.ReceiptRenderer
	printer  port.ReceiptPrinter
	labels   *i18n.Table
	validate *validatorv10.Validate
}

// NewCheckoutHandler 创建一个新的 HTTP 处理器实例
func NewCheckoutHandler(
	service *application.CheckoutService,
	renderer *application.ReceiptRenderer,
	printer port.ReceiptPrinter,
	labels *i18n.Table,
) *CheckoutHandler {
	return &CheckoutHandler{
		service:  service,
		renderer: renderer,
		printer:  printer,
		labels:   labels,
		validate: validation.New(),
	}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *CheckoutHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/api/products", h.handleProducts)
	mux.HandleFunc("/api/products/barcode", h.handleBarcode)
	mux.HandleFunc("/api/categories", h.handleCategories)

	mux.HandleFunc("/api/cart", h.handleCart)
	mux.HandleFunc("/api/cart/items", h.handleCartItems)
	mux.HandleFunc("/api/cart/quantity", h.handleQuantity)
	mux.HandleFunc("/api/cart/clear", h.handleClear)

	mux.HandleFunc("/api/coupon", h.handleCoupon)

	mux.HandleFunc("/api/checkout", h.handleCheckout)
	mux.HandleFunc("/api/orders", h.handleOrders)
	mux.HandleFunc("/api/orders/print", h.handlePrintReceipt)
	mux.HandleFunc("/api/stats", h.handleStats)

	mux.HandleFunc("/api/host", h.handleHost)
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required_without=Barcode"`
	Barcode   string `json:"barcode" validate:"required_without=ProductID"`
}

type quantityRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Delta     int    `json:"delta" validate:"required"`
}

type removeItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type couponRequest struct {
	Code string `json:"code" validate:"required"`
}

type checkoutRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=card cash"`
}

type printRequest struct {
	OrderID string `json:"orderId" validate:"required"`
	Lang    string `json:"lang"`
}

func (h *CheckoutHandler) handleProducts(w http.ResponseWriter, r *http.Request) {
	products := h.service.Products(
		r.URL.Query().Get("q"),
		r.URL.Query().Get("category"),
		h.lang(r),
	)
	writeJSON(w, http.StatusOK, products)
}

func (h *CheckoutHandler) handleBarcode(w http.ResponseWriter, r *http.Request) {
	barcode := r.URL.Query().Get("code")
	if barcode == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}
	product, err := h.service.FindByBarcode(barcode, h.lang(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *CheckoutHandler) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Categories())
}

func (h *CheckoutHandler) handleCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Cart())
}

// handleCartItems 处理加购（POST）和删行（DELETE）。
func (h *CheckoutHandler) handleCartItems(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	switch r.Method {
	case http.MethodPost:
		var req addItemRequest
		if err := validation.BindAndValidate(w, r, &req, h.validate); err != nil {
			return
		}
		var result application.AddItemResult
		var err error
		if req.ProductID != "" {
			result, err = h.service.AddItem(ctx, req.ProductID)
		} else {
			result, err = h.service.AddItemByBarcode(ctx, req.Barcode)
		}
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)

	case http.MethodDelete:
		var req removeItemRequest
		if err := validation.BindAndValidate(w, r, &req, h.validate); err != nil {
			return
		}
		cart, err := h.service.RemoveItem(ctx, req.ProductID)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, cart)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CheckoutHandler) handleQuantity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := extract(r)

	var req quantityRequest
	if err := validation.BindAndValidate(w, r, &req, h.validate); err != nil {
		return
	}
	cart, err := h.service.UpdateQuantity(ctx, req.ProductID, req.Delta)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *CheckoutHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	cart, err := h.service.ClearCart(extract(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// handleCoupon 处理应用优惠券（POST）和移除优惠券（DELETE）。
func (h *CheckoutHandler) handleCoupon(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	switch r.Method {
	case http.MethodPost:
		var req couponRequest
		if err := validation.BindAndValidate(w, r, &req, h.validate); err != nil {
			return
		}
		coupon, err := h.service.ApplyCoupon(ctx, req.Code)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidCoupon):
				couponApplies.WithLabelValues("invalid").Inc()
			case errors.Is(err, domain.ErrCouponNotApplicable):
				couponApplies.WithLabelValues("not_applicable").Inc()
			default:
				couponApplies.WithLabelValues("error").Inc()
			}
			h.writeError(w, r, err)
			return
		}
		couponApplies.WithLabelValues("applied").Inc()
		writeJSON(w, http.StatusOK, coupon)

	case http.MethodDelete:
		writeJSON(w, http.StatusOK, h.service.RemoveCoupon())

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CheckoutHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := extract(r)

	var req checkoutRequest
	if err := validation.BindAndValidate(w, r, &req, h.validate); err != nil {
		return
	}
	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	order, err := h.service.Complete(ctx, method)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ordersCompleted.WithLabelValues(string(method)).Inc()

	// 结账后的打印是尽力而为的：打印失败不回滚订单，结果单独报告
	printed := false
	document, renderErr := h.renderer.Render(order, h.lang(r))
	if renderErr == nil {
		if printErr := h.printer.PrintReceipt(ctx, document); printErr != nil {
			printRequests.WithLabelValues(printResult(printErr)).Inc()
			logger.Ctx(ctx).Error().Err(printErr).Str("order_id", order.ID).Msg("receipt print failed after checkout")
		} else {
			printRequests.WithLabelValues("ok").Inc()
			printed = true
		}
	} else {
		logger.Ctx(ctx).Error().Err(renderErr).Str("order_id", order.ID).Msg("receipt render failed")
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"order":   order,
		"printed": printed,
	})
}

func (h *CheckoutHandler) handleOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.Orders(extract(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// handlePrintReceipt 重打历史订单的小票。
func (h *CheckoutHandler) handlePrintReceipt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := extract(r)

	var req printRequest
	if err := validation.BindAndValidate(w, r, &req, h.validate); err != nil {
		return
	}
	lang := req.Lang
	if lang == "" {
		lang = h.lang(r)
	}

	order, err := h.service.FindOrder(ctx, req.OrderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	document, err := h.renderer.Render(order, lang)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.printer.PrintReceipt(ctx, document); err != nil {
		printRequests.WithLabelValues(printResult(err)).Inc()
		h.writeError(w, r, err)
		return
	}
	printRequests.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, map[string]bool{"printed": true})
}

func (h *CheckoutHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	topN := defaultTopProducts
	if raw := r.URL.Query().Get("top"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			topN = n
		}
	}
	stats, err := h.service.Stats(extract(r), topN)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleHost 返回打印宿主的版本与平台信息。
func (h *CheckoutHandler) handleHost(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	version, err := h.printer.AppVersion(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	platform, err := h.printer.Platform(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"version":  version,
		"platform": platform,
	})
}

// writeError 把领域错误映射为 HTTP 状态码，错误文案走标签表。
func (h *CheckoutHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	lang := h.lang(r)
	var statusCode int
	message := err.Error()

	switch {
	case errors.Is(err, domain.ErrInvalidCoupon):
		statusCode = http.StatusNotFound
		message = h.labels.Lookup(lang, "invalidCoupon")
	case errors.Is(err, domain.ErrCouponNotApplicable):
		statusCode = http.StatusForbidden
		message = h.labels.Lookup(lang, "couponNotApplicable")
	case errors.Is(err, domain.ErrEmptyCart):
		statusCode = http.StatusConflict
		message = h.labels.Lookup(lang, "cartIsEmpty")
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrOrderNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidPaymentMethod):
		statusCode = http.StatusBadRequest
	case errors.Is(err, domain.ErrStorageUnavailable):
		statusCode = http.StatusServiceUnavailable
	case errors.Is(err, printdomain.ErrPrintTimeout):
		statusCode = http.StatusGatewayTimeout
	case errors.Is(err, printdomain.ErrNoPrinters),
		errors.Is(err, printdomain.ErrLoadFailed),
		errors.Is(err, printdomain.ErrPrintFailed),
		errors.Is(err, printdomain.ErrAgentUnavailable):
		statusCode = http.StatusBadGateway
	default:
		statusCode = http.StatusInternalServerError
	}

	writeJSON(w, statusCode, map[string]string{"error": message})
}

// lang 取请求语言，请求未指定时用终端配置的默认语言。
func (h *CheckoutHandler) lang(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	if lang := r.Header.Get("X-Language"); lang != "" {
		return lang
	}
	return bootstrap.GetCurrentConfig().App.Language
}

func printResult(err error) string {
	switch {
	case errors.Is(err, printdomain.ErrNoPrinters):
		return "no_printers"
	case errors.Is(err, printdomain.ErrPrintTimeout):
		return "timeout"
	case errors.Is(err, printdomain.ErrAgentUnavailable):
		return "agent_unavailable"
	default:
		return "failed"
	}
}

func extract(r *http.Request) context.Context {
	propagator := otel.GetTextMapPropagator()
	return propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
