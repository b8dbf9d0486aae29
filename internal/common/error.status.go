package common

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrorCode định nghĩa mã lỗi chi tiết
type ErrorCode struct {
	Code        string // Mã lỗi (ví dụ: CFG_001)
	Category    string // Phân loại lỗi (ví dụ: Configuration)
	SubCategory string // Phân loại con (ví dụ: Missing)
	Description string // Mô tả chi tiết
}

// Định nghĩa các mã lỗi theo hệ thống phân cấp
var (
	// Configuration Errors (CFG_xxx) - luôn fatal, dừng trước khi ghi
	ErrCodeConfig = ErrorCode{
		Code:        "CFG_001",
		Category:    "Configuration",
		SubCategory: "Missing",
		Description: "Thiếu cấu hình bắt buộc",
	}

	ErrCodeConfigPrerequisite = ErrorCode{
		Code:        "CFG_002",
		Category:    "Configuration",
		SubCategory: "Prerequisite",
		Description: "Thiếu dữ liệu tiên quyết cho seed",
	}

	ErrCodeConfigFile = ErrorCode{
		Code:        "CFG_003",
		Category:    "Configuration",
		SubCategory: "File",
		Description: "Không đọc được file dữ liệu",
	}

	// Validation Errors (VAL_xxx)
	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Lỗi dữ liệu đầu vào",
	}

	// Database Errors (DB_xxx)
	ErrCodeDatabase = ErrorCode{
		Code:        "DB",
		Category:    "Database",
		SubCategory: "General",
		Description: "Lỗi cơ sở dữ liệu chung",
	}

	ErrCodeDatabaseConnection = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		SubCategory: "Connection",
		Description: "Lỗi kết nối cơ sở dữ liệu",
	}

	ErrCodeDatabaseQuery = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		SubCategory: "Query",
		Description: "Lỗi truy vấn dữ liệu",
	}

	ErrCodeDatabaseWrite = ErrorCode{
		Code:        "DB_003",
		Category:    "Database",
		SubCategory: "Write",
		Description: "Lỗi ghi dữ liệu",
	}

	// Migration Errors (MIG_xxx)
	ErrCodeMigrationState = ErrorCode{
		Code:        "MIG_001",
		Category:    "Migration",
		SubCategory: "State",
		Description: "Chuyển trạng thái migration không hợp lệ",
	}
)

// Error định nghĩa cấu trúc lỗi chi tiết
type Error struct {
	Code    ErrorCode // Mã lỗi chi tiết
	Message string    // Thông báo lỗi
	Details any       // Thông tin chi tiết thêm về lỗi (thường là lỗi gốc)
}

// Error trả về message của lỗi, kèm lỗi gốc nếu có
func (e *Error) Error() string {
	if cause, ok := e.Details.(error); ok && cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, cause)
	}
	return e.Message
}

// Unwrap trả về lỗi gốc để errors.Is / errors.As đi xuyên qua
func (e *Error) Unwrap() error {
	if cause, ok := e.Details.(error); ok {
		return cause
	}
	return nil
}

// Is so sánh theo mã lỗi, nên WithDetails(...) của một sentinel vẫn khớp sentinel đó
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code.Code == t.Code.Code && e.Message == t.Message
}

// WithDetails trả về bản sao của lỗi gắn thêm chi tiết
func (e *Error) WithDetails(details any) error {
	return &Error{Code: e.Code, Message: e.Message, Details: details}
}

// NewError tạo một error mới với đầy đủ thông tin
func NewError(code ErrorCode, message string, details any) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Custom errors
var (
	// Configuration Errors
	ErrConfigMissing = NewError(ErrCodeConfig, "missing required configuration", nil)
	ErrAdminNotFound = NewError(ErrCodeConfigPrerequisite, "no admin user found; create an admin account or set SEED_ADMIN_ID", nil)
	ErrInvalidFile   = NewError(ErrCodeConfigFile, "cannot read data file", nil)

	// Validation Errors
	ErrInvalidInput  = NewError(ErrCodeValidationInput, "invalid input", nil)
	ErrRequiredField = NewError(ErrCodeValidationInput, "required field is empty", nil)

	// Database Errors
	ErrNotFound    = NewError(ErrCodeDatabaseQuery, "document not found", nil)
	ErrConnection  = NewError(ErrCodeDatabaseConnection, "database connection failed", nil)
	ErrSourceRead  = NewError(ErrCodeDatabaseQuery, "source read failed", nil)
	ErrTargetWrite = NewError(ErrCodeDatabaseWrite, "target write failed", nil)
	ErrDuplicate   = NewError(ErrCodeDatabaseWrite, "duplicate key", nil)

	// Migration Errors
	ErrInvalidTransition = NewError(ErrCodeMigrationState, "invalid migration state transition", nil)
)

// ConvertMongoError chuyển đổi lỗi MongoDB sang lỗi hệ thống, giữ lỗi gốc trong Details
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	// Lỗi đã được chuyển đổi thì giữ nguyên
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound.WithDetails(err)
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate.WithDetails(err)
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return ErrConnection.WithDetails(err)
	}

	var writeErr mongo.WriteException
	var bulkErr mongo.BulkWriteException
	if errors.As(err, &writeErr) || errors.As(err, &bulkErr) {
		return ErrTargetWrite.WithDetails(err)
	}

	return NewError(ErrCodeDatabase, "database error", err)
}
