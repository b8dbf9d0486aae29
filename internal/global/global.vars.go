package global

import (
	"github.com/go-playground/validator/v10"
)

// Các biến toàn cục
var Validate *validator.Validate // Biến để xác thực dữ liệu trước khi ghi vào collection enhanced
