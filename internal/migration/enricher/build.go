package enricher

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"electronic_product/internal/migration/models"
)

// BuildCategory chuẩn hóa một danh mục thô, createdBy là admin chạy migration
func BuildCategory(raw models.RawCategory, adminID primitive.ObjectID, now time.Time) models.EnhancedCategory {
	name := strings.TrimSpace(raw.CategoryName)
	createdBy := adminID
	return models.EnhancedCategory{
		Name:      name,
		Slug:      Slugify(name),
		Memo:      strings.TrimSpace(raw.Memo),
		IsActive:  true,
		CreatedBy: &createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BuildCatalogCategory chuẩn hóa một danh mục lấy từ file catalog (không có createdBy)
func BuildCatalogCategory(ref models.CategoryRef, now time.Time) models.EnhancedCategory {
	name := strings.TrimSpace(ref.Name)
	return models.EnhancedCategory{
		Name:      name,
		Slug:      Slugify(name),
		Memo:      strings.TrimSpace(ref.Memo),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BuildProduct ghép dòng sản phẩm thô, các tham chiếu đã resolve và dữ liệu bổ sung thành sản phẩm chuẩn hóa.
// Không I/O. typeId không resolve được cho category rỗng, account không resolve được cho nil.
func BuildProduct(
	raw models.RawProduct,
	categoryMap map[string]primitive.ObjectID,
	accountMap map[string]primitive.ObjectID,
	extras ExtraLookup,
	now time.Time,
) models.EnhancedProduct {
	category := []primitive.ObjectID{}
	if raw.TypeID != nil {
		if id, ok := categoryMap[models.TypeKey(*raw.TypeID)]; ok {
			category = append(category, id)
		}
	}

	var account *primitive.ObjectID
	if raw.Account != "" {
		if id, ok := accountMap[raw.Account]; ok {
			account = &id
		}
	}

	fields := DefaultProductFields()
	if extras != nil {
		if extra, ok := extras.Lookup(raw.ProductID); ok {
			fields = fields.apply(extra)
		}
	}

	description := raw.Brief
	if description == "" {
		description = raw.Description
	}
	if description == "" {
		description = DefaultDescription
	}

	imageURL := raw.ProductImage
	if imageURL == "" {
		imageURL = DefaultImageURL
	}

	unit := strings.TrimSpace(raw.Unit)
	if unit == "" {
		unit = DefaultUnit
	}

	posted := now
	if raw.PostedDate != nil {
		posted = *raw.PostedDate
	}

	name := strings.TrimSpace(raw.ProductName)
	return models.EnhancedProduct{
		ProductID:    raw.ProductID,
		ProductName:  name,
		Description:  strings.TrimSpace(description),
		ProductImage: models.ProductImage{URL: imageURL, Alt: name},
		Category:     category,
		Price:        valueOr(raw.Price, 0),
		Discount:     valueOr(raw.Discount, 0),
		Brand:        fields.Brand,
		Stock:        fields.Stock,
		HashTag:      fields.HashTag,
		Ratings:      fields.Ratings,
		IsActive:     fields.IsActive,
		PostedDate:   posted,
		Account:      account,
		Unit:         unit,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
