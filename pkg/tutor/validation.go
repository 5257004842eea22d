package tutor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate 全包共享的校验器实例
var validate = validator.New()

// validateRequest 校验请求负载
//
// validator 的字段错误被映射为 ValidationError，文本可直接展示。
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Msg: err.Error()}
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, describeFieldError(fe))
	}
	return &ValidationError{Msg: strings.Join(parts, "; ")}
}

// describeFieldError 生成单个字段错误的可读描述
func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("field %s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("field %s must be one of [%s]", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("field %s must have at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("field %s must have at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("field %s failed %s validation", fe.Field(), fe.Tag())
	}
}
