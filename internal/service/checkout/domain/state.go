// internal/service/checkout/domain/state.go
package domain

import "fmt"

// State 定义了结账会话的生命周期状态。
type State string

const (
	StateIdle           State = "IDLE"            // 未进入结账流程
	StateMethodSelected State = "METHOD_SELECTED" // 已选定支付方式
	StateProcessing     State = "PROCESSING"      // 模拟支付处理中，无外部可观察的中间态
	StateComplete       State = "COMPLETE"        // 结账完成，等待界面确认后回到 IDLE
)

// CheckoutSession 跟踪一次结账的状态流转。
// 只做状态保护，不负责任何业务副作用。
type CheckoutSession struct {
	state  State
	method PaymentMethod
}

// NewCheckoutSession 创建处于 IDLE 的结账会话。
func NewCheckoutSession() *CheckoutSession {
	return &CheckoutSession{state: StateIdle}
}

func (s *CheckoutSession) State() State { return s.state }

// SelectMethod 记录支付方式并进入 METHOD_SELECTED。
func (s *CheckoutSession) SelectMethod(method PaymentMethod) error {
	if s.state != StateIdle && s.state != StateMethodSelected {
		return fmt.Errorf("cannot select payment method in state %s", s.state)
	}
	s.method = method
	s.state = StateMethodSelected
	return nil
}

// Begin 进入 PROCESSING。只能从 METHOD_SELECTED 进入，且必须已有支付方式。
func (s *CheckoutSession) Begin() error {
	if s.state != StateMethodSelected || s.method == "" {
		return fmt.Errorf("cannot begin processing in state %s", s.state)
	}
	s.state = StateProcessing
	return nil
}

// Complete 进入 COMPLETE。
func (s *CheckoutSession) Complete() error {
	if s.state != StateProcessing {
		return fmt.Errorf("cannot complete in state %s", s.state)
	}
	s.state = StateComplete
	return nil
}

// Dismiss 由界面在展示完成页后调用，回到 IDLE。
func (s *CheckoutSession) Dismiss() {
	s.state = StateIdle
	s.method = ""
}

// Abort 在处理失败时回到 IDLE，支付方式清空。
func (s *CheckoutSession) Abort() {
	s.state = StateIdle
	s.method = ""
}

// Method 返回当前选定的支付方式。
func (s *CheckoutSession) Method() PaymentMethod { return s.method }
