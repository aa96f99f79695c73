// internal/service/checkout/domain/errors.go
package domain

import "errors"

// 结账域的错误都属于可恢复错误：报告给发起操作的界面，已有状态保持不变。
var (
	// ErrInvalidCoupon 用户输入的券码不在优惠券表中
	ErrInvalidCoupon = errors.New("invalid coupon code")
	// ErrCouponNotApplicable 券码存在但适用条件（CEL 规则）不满足
	ErrCouponNotApplicable = errors.New("coupon not applicable to current cart")
	// ErrEmptyCart 购物车为空时尝试结账
	ErrEmptyCart = errors.New("cart is empty")
	// ErrStorageUnavailable 外部持久化层不可用，由调用方决定是否降级为纯内存模式
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrInvalidPaymentMethod 未知的支付方式
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	// ErrProductNotFound 目录中不存在该商品
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound 订单历史里不存在该订单
	ErrOrderNotFound = errors.New("order not found")
)
