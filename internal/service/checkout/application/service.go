// internal/service/checkout/application/service.go
package application

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"quickmart/internal/pkg/logger"
	"quickmart/internal/service/checkout/domain"
	"quickmart/internal/service/checkout/port"
)

// CheckoutService 是自助收银会话的应用服务，持有唯一的一份会话状态：
// 购物车台账、当前优惠券和结账状态机。
// 所有购物车/优惠/结账操作都是同步的单写者状态变更，用互斥锁保证
// 每次变更对外表现为原子操作。
type CheckoutService struct {
	mu      sync.Mutex
	cart    *domain.Cart
	coupon  *domain.AppliedCoupon
	session *domain.CheckoutSession

	catalog    *domain.Catalog
	coupons    *domain.CouponTable
	ruleEngine domain.RuleEngine

	cartRepo  domain.CartRepository
	orderRepo domain.OrderRepository
	notifier  port.OrderNotifier // 未开启订单事件时为 nil

	tracer  trace.Tracer
	nowFunc func() time.Time
	newID   func() string
}

// NewCheckoutService 组装一个结账应用服务。
func NewCheckoutService(
	catalog *domain.Catalog,
	coupons *domain.CouponTable,
	ruleEngine domain.RuleEngine,
	cartRepo domain.CartRepository,
	orderRepo domain.OrderRepository,
	notifier port.OrderNotifier,
	tracer trace.Tracer,
) *CheckoutService {
	return &CheckoutService{
		cart:       domain.NewCart(),
		session:    domain.NewCheckoutSession(),
		catalog:    catalog,
		coupons:    coupons,
		ruleEngine: ruleEngine,
		cartRepo:   cartRepo,
		orderRepo:  orderRepo,
		notifier:   notifier,
		tracer:     tracer,
		nowFunc:    time.Now,
		newID:      uuid.NewString,
	}
}

// Restore 从持久化层恢复上次会话的购物车（启动时调用一次）。
func (s *CheckoutService) Restore(ctx context.Context) error {
	items, err := s.cartRepo.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cart = domain.RestoreCart(items)
	s.mu.Unlock()
	logger.Ctx(ctx).Info().Int("lines", len(items)).Msg("cart restored from storage")
	return nil
}

// Products 返回目录查询结果。
func (s *CheckoutService) Products(query, category, lang string) []ProductView {
	products := s.catalog.Search(query, category)
	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, toProductView(p, lang))
	}
	return out
}

// Categories 返回目录的全部分类。
func (s *CheckoutService) Categories() []string {
	return s.catalog.Categories()
}

// FindByBarcode 按条码查找商品。条码不唯一时按目录顺序第一个命中。
func (s *CheckoutService) FindByBarcode(barcode, lang string) (ProductView, error) {
	p, ok := s.catalog.FindByBarcode(barcode)
	if !ok {
		return ProductView{}, domain.ErrProductNotFound
	}
	return toProductView(p, lang), nil
}

// AddItem 把商品加入购物车。永远成功（除非商品不存在或存储不可用）。
func (s *CheckoutService) AddItem(ctx context.Context, productID string) (AddItemResult, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.AddItem")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", productID))

	product, ok := s.catalog.FindByID(productID)
	if !ok {
		return AddItemResult{}, domain.ErrProductNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.cart.Snapshot()
	outcome := s.cart.Add(product)
	if err := s.persistCartLocked(ctx); err != nil {
		s.cart = domain.RestoreCart(prev)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist cart")
		return AddItemResult{}, err
	}

	return AddItemResult{
		Cart:    s.cartViewLocked(),
		Product: product.Name,
		NewLine: outcome == domain.AddOutcomeNewLine,
	}, nil
}

// AddItemByBarcode 扫码加购。
func (s *CheckoutService) AddItemByBarcode(ctx context.Context, barcode string) (AddItemResult, error) {
	product, ok := s.catalog.FindByBarcode(barcode)
	if !ok {
		return AddItemResult{}, domain.ErrProductNotFound
	}
	return s.AddItem(ctx, product.ID)
}

// UpdateQuantity 调整某行的数量；结果 <= 0 时整行移除。id 不存在是 no-op。
func (s *CheckoutService) UpdateQuantity(ctx context.Context, productID string, delta int) (CartView, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.UpdateQuantity")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.cart.Snapshot()
	s.cart.UpdateQuantity(productID, delta)
	if err := s.persistCartLocked(ctx); err != nil {
		s.cart = domain.RestoreCart(prev)
		span.RecordError(err)
		return CartView{}, err
	}
	return s.cartViewLocked(), nil
}

// RemoveItem 无条件删除某行。
func (s *CheckoutService) RemoveItem(ctx context.Context, productID string) (CartView, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.RemoveItem")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.cart.Snapshot()
	s.cart.Remove(productID)
	if err := s.persistCartLocked(ctx); err != nil {
		s.cart = domain.RestoreCart(prev)
		span.RecordError(err)
		return CartView{}, err
	}
	return s.cartViewLocked(), nil
}

// ClearCart 清空购物车并复位优惠状态。
func (s *CheckoutService) ClearCart(ctx context.Context) (CartView, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.ClearCart")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.cart.Snapshot()
	prevCoupon := s.coupon
	s.cart.Clear()
	s.coupon = nil
	if err := s.persistCartLocked(ctx); err != nil {
		s.cart = domain.RestoreCart(prev)
		s.coupon = prevCoupon
		span.RecordError(err)
		return CartView{}, err
	}
	return s.cartViewLocked(), nil
}

// Cart 返回当前购物车视图。
func (s *CheckoutService) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartViewLocked()
}

// ApplyCoupon 校验券码并计算优惠金额。
// 失败（未知券码 / 规则不满足）不改变任何已生效的优惠状态；
// 成功时替换之前生效的券，不需要先显式移除。
func (s *CheckoutService) ApplyCoupon(ctx context.Context, code string) (CouponView, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.ApplyCoupon")
	defer span.End()
	span.SetAttributes(attribute.String("coupon.code", domain.CanonicalCouponCode(code)))

	coupon, ok := s.coupons.Lookup(code)
	if !ok {
		span.SetStatus(codes.Error, "unknown coupon code")
		return CouponView{}, domain.ErrInvalidCoupon
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subtotal := s.cart.Subtotal()
	if coupon.Rule != "" {
		fact := domain.Fact{Subtotal: subtotal, ItemCount: s.cart.ItemCount()}
		ok, err := s.ruleEngine.Evaluate(coupon.Rule, fact)
		if err != nil {
			span.RecordError(err)
			return CouponView{}, errors.Wrapf(err, "evaluate rule for coupon %s", coupon.Code)
		}
		if !ok {
			return CouponView{}, domain.ErrCouponNotApplicable
		}
	}

	amount := coupon.Amount(subtotal)
	s.coupon = &domain.AppliedCoupon{Code: coupon.Code, Amount: amount}
	logger.Ctx(ctx).Info().
		Str("code", coupon.Code).
		Str("discount", domain.FormatAmount(amount)).
		Msg("coupon applied")

	return CouponView{Code: coupon.Code, Discount: amount, Cart: s.cartViewLocked()}, nil
}

// RemoveCoupon 无条件清除当前优惠券，优惠金额归零。
func (s *CheckoutService) RemoveCoupon() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupon = nil
	return s.cartViewLocked()
}

// Complete 完成结账：把购物车 + 优惠 + 支付方式物化为订单，
// 追加进订单历史，然后原子地清空购物车和优惠状态。
// 前置条件：购物车非空；订单持久化失败时所有会话状态保持不变。
func (s *CheckoutService) Complete(ctx context.Context, method domain.PaymentMethod) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.Complete")
	defer span.End()
	span.SetAttributes(attribute.String("payment.method", string(method)))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.IsEmpty() {
		span.SetStatus(codes.Error, "empty cart")
		return nil, domain.ErrEmptyCart
	}

	if err := s.session.SelectMethod(method); err != nil {
		return nil, err
	}
	if err := s.session.Begin(); err != nil {
		s.session.Abort()
		return nil, err
	}

	order, err := domain.NewOrder(s.newID(), s.cart.Snapshot(), s.cart.Subtotal(), s.coupon, method, s.nowFunc())
	if err != nil {
		s.session.Abort()
		return nil, err
	}
	span.SetAttributes(attribute.String("order.id", order.ID))

	if err := s.orderRepo.Save(ctx, order); err != nil {
		s.session.Abort()
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist order")
		return nil, err
	}

	// 订单已落库，之后的会话复位不再回滚
	s.cart.Clear()
	s.coupon = nil
	if err := s.persistCartLocked(ctx); err != nil {
		// 订单已经成立，购物车覆写失败只损失“下次启动从空车开始”这一点，
		// 记录后继续
		logger.Ctx(ctx).Error().Err(err).Msg("failed to persist cleared cart after checkout")
	}

	if err := s.session.Complete(); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("unexpected checkout state transition")
	}
	s.session.Dismiss()

	if s.notifier != nil {
		if err := s.notifier.OrderCompleted(ctx, order); err != nil {
			// 事件属于尽力而为，不影响结账结果
			logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("failed to publish order completed event")
		}
	}

	logger.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Str("total", domain.FormatAmount(order.Total)).
		Str("payment_method", string(method)).
		Msg("checkout complete")
	span.AddEvent("Order materialized and session reset.")
	return order, nil
}

// Orders 返回全部历史订单的视图，最近优先。
func (s *CheckoutService) Orders(ctx context.Context) ([]OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.Orders")
	defer span.End()
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return toOrderViews(orders), nil
}

// Stats 基于全部订单历史计算统计快照。
func (s *CheckoutService) Stats(ctx context.Context, topN int) (Statistics, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.Stats")
	defer span.End()
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return Statistics{}, err
	}
	return ComputeStatistics(orders, s.nowFunc(), topN), nil
}

// FindOrder 按 ID 在订单历史中查找（打印历史小票用）。
func (s *CheckoutService) FindOrder(ctx context.Context, id string) (*domain.Order, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (s *CheckoutService) persistCartLocked(ctx context.Context) error {
	return s.cartRepo.Save(ctx, s.cart.Snapshot())
}

func (s *CheckoutService) cartViewLocked() CartView {
	subtotal := s.cart.Subtotal()
	view := CartView{
		Items:    toCartLineViews(s.cart.Snapshot()),
		Subtotal: subtotal,
	}
	if s.coupon != nil {
		view.Discount = s.coupon.Amount
		view.CouponCode = s.coupon.Code
	}
	view.Total = math.Max(0, subtotal-view.Discount)
	return view
}
