// Package rule 提供结构体和字段验证功能的封装，基于 go-playground/validator 实现.
// 使用 `rule:` 标签，与 gin 的 `binding:` 标签互不干扰.
package rule

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	inst *validator.Validate
	once sync.Once
)

// initValidator 新建独立的 validator. 不复用 gin 的引擎，否则会改掉它的 binding 标签名.
func initValidator() {
	inst = validator.New(validator.WithRequiredStructEnabled())
	inst.SetTagName("rule")

	// 错误里使用 mapstructure 名称，与配置文件中的键一致
	inst.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}

		return name
	})

	inst.RegisterAlias("volume", "min=0,max=100")
}

// lazyInit 初始化全局 validator（幂等）.
func lazyInit() {
	once.Do(initValidator)
}

// Engine 返回全局 *validator.Validate，若未初始化则先初始化.
func Engine() *validator.Validate {
	lazyInit()

	return inst
}

// RegisterValidation 代理 RegisterValidation，确保已初始化.
func RegisterValidation(tag string, fn validator.Func, opts ...bool) error {
	lazyInit()

	return inst.RegisterValidation(tag, fn, opts...)
}

// ValidationErrors 是格式化后的验证错误字典，键为字段路径，值为失败的规则.
type ValidationErrors map[string]string

// Errors 把 ValidateStruct 返回的错误展开为字典，非校验错误返回 nil.
func Errors(err error) ValidationErrors {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}

	out := make(ValidationErrors, len(ve))

	for _, fe := range ve {
		msg := fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}

		// 去掉根结构体名，例如 AppConfig.board.slots -> board.slots
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		out[path] = msg
	}

	return out
}

// ValidateStruct 对结构体执行完整校验，返回原始 error（可用 Errors 解析）.
func ValidateStruct(s any) error {
	lazyInit()

	return inst.Struct(s)
}

// ValidateVar 按规则对单个变量校验，例如: ValidateVar("abc", "required,email").
func ValidateVar(field any, tag string) error {
	lazyInit()

	return inst.Var(field, tag)
}

// RegisterAlias 包装 RegisterAlias，便于注册别名规则.
func RegisterAlias(alias, rules string) {
	lazyInit()

	inst.RegisterAlias(alias, rules)
}
