// internal/service/checkout/infrastructure/rule/cel_engine.go
package rule

import (
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	"quickmart/internal/service/checkout/domain"
)

// CELEngine 用 CEL 表达式评估优惠券适用规则，
// 例如 "subtotal >= 50.0" 或 "itemCount >= 3 && subtotal >= 20.0"。
// 编译结果按表达式文本缓存，同一条规则只编译一次。
type CELEngine struct {
	env *cel.Env

	mu       sync.Mutex
	programs map[string]cel.Program
}

// NewCELEngine 创建规则引擎。规则可见的变量只有 subtotal 和 itemCount。
func NewCELEngine() (*CELEngine, error) {
	env, err := cel.NewEnv(
		cel.Variable("subtotal", cel.DoubleType),
		cel.Variable("itemCount", cel.IntType),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create cel environment")
	}
	return &CELEngine{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

// Evaluate 对购物车事实评估 rule。空规则恒为真。
// 表达式必须产出布尔值，否则视为规则配置错误。
func (e *CELEngine) Evaluate(rule string, fact domain.Fact) (bool, error) {
	if rule == "" {
		return true, nil
	}

	program, err := e.compile(rule)
	if err != nil {
		return false, err
	}

	out, _, err := program.Eval(map[string]interface{}{
		"subtotal":  fact.Subtotal,
		"itemCount": int64(fact.ItemCount),
	})
	if err != nil {
		return false, errors.Wrapf(err, "evaluate rule %q", rule)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, errors.Errorf("rule %q did not evaluate to a boolean", rule)
	}
	return result, nil
}

func (e *CELEngine) compile(rule string) (cel.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if program, ok := e.programs[rule]; ok {
		return program, nil
	}

	ast, issues := e.env.Compile(rule)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrapf(issues.Err(), "compile rule %q", rule)
	}
	program, err := e.env.Program(ast)
	if err != nil {
		return nil, errors.Wrapf(err, "build program for rule %q", rule)
	}
	e.programs[rule] = program
	return program, nil
}
