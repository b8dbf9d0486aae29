package global

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// slugPattern: chữ thường/số, ngăn cách bởi một dấu '-', không có '-' ở đầu hoặc cuối
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	Validate = NewValidator()
}

// NewValidator tạo validator với các custom tag của dự án
func NewValidator() *validator.Validate {
	v := validator.New()

	// Đăng ký các custom validator
	_ = v.RegisterValidation("slug", validateSlug)
	_ = v.RegisterValidation("not_blank", validateNotBlank)
	return v
}

// GetValidator trả về validator toàn cục, khởi tạo nếu chưa có
func GetValidator() *validator.Validate {
	if Validate == nil {
		InitValidator()
	}
	return Validate
}

// validateSlug kiểm tra slug đúng định dạng URL
func validateSlug(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}

// validateNotBlank kiểm tra chuỗi không rỗng sau khi trim
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
