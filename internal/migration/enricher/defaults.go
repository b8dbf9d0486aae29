package enricher

import (
	"electronic_product/internal/migration/models"
)

// Giá trị mặc định khi dòng nguồn thiếu dữ liệu
const (
	DefaultBrand       = "No brand"
	DefaultDescription = "No description"
	DefaultImageURL    = "/images/default.jpg"
	DefaultUnit        = "Cái"
	DefaultStock       = 0
)

// ProductDefaults là lớp field nghiệp vụ mặc định, file bổ sung ghi đè từng field
type ProductDefaults struct {
	Brand    string
	Stock    int64
	HashTag  []string
	Ratings  models.Ratings
	IsActive bool
}

// DefaultProductFields trả về bộ mặc định mới (slice không dùng chung giữa các sản phẩm)
func DefaultProductFields() ProductDefaults {
	return ProductDefaults{
		Brand:    DefaultBrand,
		Stock:    DefaultStock,
		HashTag:  []string{},
		Ratings:  models.Ratings{Average: 0, Count: 0},
		IsActive: true,
	}
}

// apply ghi đè các field có mặt trong extra, field vắng giữ nguyên
func (d ProductDefaults) apply(extra models.ExtraFields) ProductDefaults {
	if extra.Brand != nil {
		d.Brand = *extra.Brand
	}
	if extra.Stock != nil {
		d.Stock = *extra.Stock
	}
	if extra.HashTag != nil {
		d.HashTag = append([]string{}, extra.HashTag...)
	}
	if extra.Ratings != nil {
		d.Ratings = *extra.Ratings
	}
	if extra.IsActive != nil {
		d.IsActive = *extra.IsActive
	}
	return d
}
