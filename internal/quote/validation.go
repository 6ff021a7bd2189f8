package quote

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	// 除制表、换行、回车外的控制字符
	controlCharPattern = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

	// 3个以上连续空格，或连续的制表、换行、回车
	excessiveWhitespacePattern = regexp.MustCompile(` {3,}|\t{2,}|\n{2,}|\r{2,}`)

	problematicCharPattern = regexp.MustCompile("[<>{}\\[\\]\\\\|`~]")

	lineBreakPattern  = regexp.MustCompile(`[\t\n\r]`)
	multiSpacePattern = regexp.MustCompile(` {2,}`)
)

// fieldMessages 校验标签对应的错误提示
var fieldMessages = map[string]string{
	"required":     "%s should not be empty",
	"min":          "%s should not be empty",
	"max":          "%s must be %s characters or less",
	"no_semicolon": "Tag values cannot contain semicolons (;). Use separate tags instead.",
	"safe_tags":    "Tag values contain invalid characters. Please use only letters, numbers, spaces, and common punctuation.",
}

// newValidator 创建注册了标签校验规则的验证器
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("no_semicolon", validateNoSemicolon)
	_ = v.RegisterValidation("safe_tags", validateSafeTags)
	return v
}

// validateNoSemicolon 标签中不允许出现分号
func validateNoSemicolon(fl validator.FieldLevel) bool {
	return !strings.Contains(fl.Field().String(), ";")
}

// validateSafeTags 拒绝控制字符、过多空白和特殊符号
func validateSafeTags(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return !controlCharPattern.MatchString(value) &&
		!excessiveWhitespacePattern.MatchString(value) &&
		!problematicCharPattern.MatchString(value)
}

// SanitizeTags 规整标签字符串：去除控制字符，制表与换行替换为空格，合并连续空格
func SanitizeTags(input string) string {
	out := controlCharPattern.ReplaceAllString(input, "")
	out = lineBreakPattern.ReplaceAllString(out, " ")
	out = multiSpacePattern.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// ValidateID 校验名言ID必须是标准格式的UUID
func ValidateID(id string) error {
	if len(id) != 36 {
		return ErrInvalidID
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	return nil
}

// toValidationError 将验证器错误转换为逐字段提示
func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidQuote, err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		format, ok := fieldMessages[fe.Tag()]
		if !ok {
			messages = append(messages, fmt.Sprintf("%s is invalid", fe.Field()))
			continue
		}
		switch fe.Tag() {
		case "max":
			messages = append(messages, fmt.Sprintf(format, fe.Field(), fe.Param()))
		case "required", "min":
			messages = append(messages, fmt.Sprintf(format, fe.Field()))
		default:
			messages = append(messages, format)
		}
	}

	return &ValidationError{Messages: messages}
}
