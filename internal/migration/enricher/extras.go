package enricher

import (
	"encoding/json"
	"fmt"
	"os"

	"electronic_product/internal/common"
	"electronic_product/internal/migration/models"
)

// ExtraLookup tra field bổ sung theo productId
type ExtraLookup interface {
	Lookup(productID string) (models.ExtraFields, bool)
}

// NoExtras không có dữ liệu bổ sung, mọi sản phẩm dùng mặc định
type NoExtras struct{}

// Lookup luôn trả về không tìm thấy
func (NoExtras) Lookup(string) (models.ExtraFields, bool) { return models.ExtraFields{}, false }

// ExtraCatalog là dữ liệu bổ sung đã nạp vào bộ nhớ, theo productId
type ExtraCatalog struct {
	byProductID map[string]models.ExtraFields
}

// NewExtraCatalog tạo catalog từ danh sách; productId trùng thì phần tử sau thắng
func NewExtraCatalog(items []models.ExtraFields) *ExtraCatalog {
	c := &ExtraCatalog{byProductID: make(map[string]models.ExtraFields, len(items))}
	for _, item := range items {
		if item.ProductID == "" {
			continue
		}
		c.byProductID[string(item.ProductID)] = item
	}
	return c
}

// Lookup trả về field bổ sung của productId
func (c *ExtraCatalog) Lookup(productID string) (models.ExtraFields, bool) {
	if c == nil {
		return models.ExtraFields{}, false
	}
	extra, ok := c.byProductID[productID]
	return extra, ok
}

// Len số sản phẩm có dữ liệu bổ sung
func (c *ExtraCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byProductID)
}

// LoadExtraCatalog đọc file JSON dạng mảng [{productId, brand, stock, hashTag, ratings, isActive, ...}].
// path rỗng trả về catalog rỗng.
func LoadExtraCatalog(path string) (*ExtraCatalog, error) {
	if path == "" {
		return NewExtraCatalog(nil), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.ErrInvalidFile.WithDetails(err)
	}

	var items []models.ExtraFields
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, common.ErrInvalidFile.WithDetails(fmt.Errorf("parse %s: %w", path, err))
	}
	return NewExtraCatalog(items), nil
}
